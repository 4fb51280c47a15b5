package common

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// DataResponse wraps a single record: `{"data": {...}}`.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// ListResponse wraps a page of records plus the continuation key for the
// next page, if any.
type ListResponse struct {
	Data             interface{} `json:"data"`
	LastEvaluatedKey string      `json:"lastEvaluatedKey,omitempty"`
}

// RespondJSON writes v as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

// RespondNoContent writes an empty 204 response.
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// DecodeJSONBody decodes the request body into v, rejecting unknown fields
// and bodies over maxBytes.
func DecodeJSONBody(r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
