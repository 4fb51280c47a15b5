package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"tasklist-backend/domain"
)

// page is one raw result page from a Scan or Query call.
type page struct {
	Items            []map[string]types.AttributeValue
	LastEvaluatedKey map[string]types.AttributeValue
}

// fetchPage issues one Scan or Query call starting at startKey.
type fetchPage func(ctx context.Context, startKey map[string]types.AttributeValue) (*page, error)

// collectOptions bound the page accumulation loop. Zero MaxPages or MaxItems
// means unbounded.
type collectOptions struct {
	StartKey map[string]types.AttributeValue
	MaxPages int
	MaxItems int
	Filter   *domain.Filter
}

// collectPages accumulates store pages until the page cap, the item cap, or
// store exhaustion is reached, applying the filter to each page as it
// arrives. It returns the surviving items (truncated to MaxItems) and the
// continuation key reported by the last page fetched.
//
// The continuation key is not corrected for client-side filtering or
// truncation: resuming from it may skip or re-serve items relative to the
// filtered view. Callers get approximate pagination, not an exactly-once
// cursor.
func collectPages(ctx context.Context, fetch fetchPage, opts collectOptions) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error) {
	var (
		items     []map[string]types.AttributeValue
		lastKey   map[string]types.AttributeValue
		startKey  = opts.StartKey
		pageIndex int
	)

	for {
		p, err := fetch(ctx, startKey)
		if err != nil {
			return nil, nil, err
		}
		lastKey = p.LastEvaluatedKey

		kept := p.Items
		if opts.Filter != nil && len(opts.Filter.Filters) > 0 {
			kept, err = filterPage(p.Items, opts.Filter)
			if err != nil {
				return nil, nil, err
			}
		}
		items = append(items, kept...)
		pageIndex++

		if lastKey == nil {
			break
		}
		if opts.MaxPages > 0 && pageIndex >= opts.MaxPages {
			break
		}
		if opts.MaxItems > 0 && len(items) >= opts.MaxItems {
			break
		}
		startKey = lastKey
	}

	if opts.MaxItems > 0 && len(items) > opts.MaxItems {
		items = items[:opts.MaxItems]
	}

	return items, lastKey, nil
}

// filterPage keeps the raw items whose unmarshaled attributes pass the
// filter.
func filterPage(items []map[string]types.AttributeValue, filter *domain.Filter) ([]map[string]types.AttributeValue, error) {
	kept := make([]map[string]types.AttributeValue, 0, len(items))
	for _, raw := range items {
		var attrs map[string]interface{}
		if err := attributevalue.UnmarshalMap(raw, &attrs); err != nil {
			return nil, fmt.Errorf("unmarshaling item for filtering: %w", err)
		}
		if filter.Match(attrs) {
			kept = append(kept, raw)
		}
	}
	return kept, nil
}

// stringKeyValue extracts a string attribute from a continuation key.
func stringKeyValue(key map[string]types.AttributeValue, name string) string {
	if key == nil {
		return ""
	}
	if s, ok := key[name].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}
