package dynamodb

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist-backend/domain"
)

// fakeStore yields fixed pages and records how many fetches were issued.
type fakeStore struct {
	pages   []*page
	fetches int
}

func (s *fakeStore) fetch(_ context.Context, _ map[string]types.AttributeValue) (*page, error) {
	if s.fetches >= len(s.pages) {
		return &page{}, nil
	}
	p := s.pages[s.fetches]
	s.fetches++
	return p, nil
}

func rawItem(itemID, title string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"itemId": &types.AttributeValueMemberS{Value: itemID},
		"title":  &types.AttributeValueMemberS{Value: title},
	}
}

func continuationKey(itemID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"itemId": &types.AttributeValueMemberS{Value: itemID},
	}
}

// threePages builds three pages of three items each, the first two carrying
// continuation keys.
func threePages() []*page {
	pages := make([]*page, 3)
	for i := 0; i < 3; i++ {
		p := &page{}
		for j := 0; j < 3; j++ {
			id := fmt.Sprintf("item-%d", i*3+j)
			p.Items = append(p.Items, rawItem(id, "task "+id))
		}
		if i < 2 {
			p.LastEvaluatedKey = continuationKey(fmt.Sprintf("item-%d", i*3+2))
		}
		pages[i] = p
	}
	return pages
}

func TestCollectPages_MaxItemsTruncatesAndKeepsRawPageKey(t *testing.T) {
	store := &fakeStore{pages: threePages()}

	items, lastKey, err := collectPages(context.Background(), store.fetch, collectOptions{MaxItems: 5})

	require.NoError(t, err)
	assert.Len(t, items, 5, "never returns more than MaxItems")
	assert.Equal(t, 2, store.fetches, "stops fetching once the item cap is reached")
	// The key is the second raw page's continuation key even though that
	// page's sixth item was discarded by truncation.
	assert.Equal(t, "item-5", stringKeyValue(lastKey, "itemId"))
}

func TestCollectPages_MaxPagesCapsFetches(t *testing.T) {
	store := &fakeStore{pages: threePages()}

	items, lastKey, err := collectPages(context.Background(), store.fetch, collectOptions{MaxPages: 2})

	require.NoError(t, err)
	assert.Equal(t, 2, store.fetches)
	assert.Len(t, items, 6)
	assert.Equal(t, "item-5", stringKeyValue(lastKey, "itemId"))
}

func TestCollectPages_ExhaustsStoreWhenUnbounded(t *testing.T) {
	store := &fakeStore{pages: threePages()}

	items, lastKey, err := collectPages(context.Background(), store.fetch, collectOptions{})

	require.NoError(t, err)
	assert.Equal(t, 3, store.fetches)
	assert.Len(t, items, 9)
	assert.Nil(t, lastKey)
}

func TestCollectPages_FilterAppliedPerPage(t *testing.T) {
	store := &fakeStore{pages: []*page{
		{
			Items: []map[string]types.AttributeValue{
				rawItem("a", "Buy groceries"),
				rawItem("b", "Call mom"),
			},
			LastEvaluatedKey: continuationKey("b"),
		},
		{
			Items: []map[string]types.AttributeValue{
				rawItem("c", "grocery run"),
			},
		},
	}}

	filter := &domain.Filter{Filters: []domain.Predicate{{Property: "title", Value: "groc"}}}
	items, _, err := collectPages(context.Background(), store.fetch, collectOptions{Filter: filter})

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", stringKeyValue(items[0], "itemId"))
	assert.Equal(t, "c", stringKeyValue(items[1], "itemId"))
}

func TestCollectPages_FilteredItemsDoNotCountTowardCap(t *testing.T) {
	store := &fakeStore{pages: []*page{
		{
			Items: []map[string]types.AttributeValue{
				rawItem("a", "Call mom"),
				rawItem("b", "Call dad"),
			},
			LastEvaluatedKey: continuationKey("b"),
		},
		{
			Items: []map[string]types.AttributeValue{
				rawItem("c", "Buy groceries"),
			},
		},
	}}

	filter := &domain.Filter{Filters: []domain.Predicate{{Property: "title", Value: "groc"}}}
	items, _, err := collectPages(context.Background(), store.fetch, collectOptions{MaxItems: 2, Filter: filter})

	require.NoError(t, err)
	assert.Equal(t, 2, store.fetches, "keeps paging while under the item cap")
	require.Len(t, items, 1)
	assert.Equal(t, "c", stringKeyValue(items[0], "itemId"))
}

func TestCollectPages_PropagatesFetchError(t *testing.T) {
	fetch := func(context.Context, map[string]types.AttributeValue) (*page, error) {
		return nil, fmt.Errorf("throughput exceeded")
	}

	_, _, err := collectPages(context.Background(), fetch, collectOptions{})
	assert.ErrorContains(t, err, "throughput exceeded")
}
