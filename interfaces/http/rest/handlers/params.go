package handlers

import (
	"encoding/json"
	"net/http"

	"tasklist-backend/domain"
	apperrors "tasklist-backend/pkg/errors"
)

// maxBodyBytes bounds request payloads. Task images are embedded data URIs,
// so the limit leaves headroom for them.
const maxBodyBytes = 2 << 20

// parseFilter decodes the optional filter query parameter, a JSON-encoded
// filter object. A missing parameter means no filtering.
func parseFilter(r *http.Request) (*domain.Filter, error) {
	raw := r.URL.Query().Get("filter")
	if raw == "" {
		return nil, nil
	}

	var filter domain.Filter
	if err := json.Unmarshal([]byte(raw), &filter); err != nil {
		return nil, apperrors.NewValidationError("filter must be a JSON filter object")
	}
	if filter.Operator != "" && filter.Operator != domain.FilterOperatorAnd && filter.Operator != domain.FilterOperatorOr {
		return nil, apperrors.NewValidationError("filter operator must be AND or OR")
	}
	for _, p := range filter.Filters {
		if p.Property == "" {
			return nil, apperrors.NewValidationError("every filter predicate needs a property")
		}
	}

	return &filter, nil
}
