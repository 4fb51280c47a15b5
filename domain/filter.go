package domain

import (
	"fmt"
	"strings"
)

// FilterOperator combines the results of a filter's predicates.
type FilterOperator string

const (
	FilterOperatorAnd FilterOperator = "AND"
	FilterOperatorOr  FilterOperator = "OR"
)

// Predicate is a single attribute test: the stringified, lowercased value of
// Property must contain Value (lowercased) as a substring.
type Predicate struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// Filter is a transient, declarative query object applied client-side to
// listing results. The zero operator means OR.
type Filter struct {
	Filters  []Predicate    `json:"filters"`
	Operator FilterOperator `json:"operator,omitempty"`
}

// Match evaluates the filter against a single item, a mapping of property
// name to value. AND requires every predicate to pass, OR (the default) at
// least one. A property absent from the item fails its predicate.
func (f *Filter) Match(item map[string]interface{}) bool {
	if f == nil || len(f.Filters) == 0 {
		return true
	}

	for _, p := range f.Filters {
		matched := matchPredicate(item, p)

		if f.Operator == FilterOperatorAnd {
			if !matched {
				return false
			}
		} else if matched {
			return true
		}
	}

	return f.Operator == FilterOperatorAnd
}

// Apply returns the items that pass the filter, preserving order. A nil or
// empty filter returns the input unchanged.
func (f *Filter) Apply(items []map[string]interface{}) []map[string]interface{} {
	if f == nil || len(f.Filters) == 0 {
		return items
	}

	kept := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			kept = append(kept, item)
		}
	}
	return kept
}

func matchPredicate(item map[string]interface{}, p Predicate) bool {
	value, ok := item[p.Property]
	if !ok || value == nil {
		return false
	}
	haystack := strings.ToLower(fmt.Sprintf("%v", value))
	return strings.Contains(haystack, strings.ToLower(p.Value))
}
