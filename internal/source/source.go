// Package source loads project records from the outside world and turns them
// into validated heapstack items. Malformed records are rejected here so the
// heap never sees them.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/Pallavbh23/heapstack"
)

// ErrFetch is returned when a remote source answers with a non-success status.
var ErrFetch = errors.New("source: fetch failed")

// Source produces the flat list of items a session is built from.
type Source interface {
	Load(ctx context.Context) ([]heapstack.Item, error)
}

// Record is the input shape of one project. Pointer fields distinguish
// "missing" from zero values.
type Record struct {
	Name        string   `yaml:"name"`
	Description *string  `yaml:"description"`
	Popularity  *int     `yaml:"popularity"`
	URL         string   `yaml:"url"`
	Topics      []string `yaml:"topics,omitempty"`
	Starred     bool     `yaml:"starred,omitempty"`
	Readme      string   `yaml:"readme,omitempty"`
}

// ToItems validates records and converts them to items. The URL becomes the id.
func ToItems(records []Record) ([]heapstack.Item, error) {
	items := make([]heapstack.Item, 0, len(records))
	seen := make(map[string]int, len(records))
	for i, r := range records {
		if r.URL == "" {
			return nil, fmt.Errorf("%w: record %d: missing url", heapstack.ErrInvalidItem, i)
		}
		if r.Popularity == nil {
			return nil, fmt.Errorf("%w: record %d (%s): missing popularity", heapstack.ErrInvalidItem, i, r.URL)
		}
		if prev, dup := seen[r.URL]; dup {
			return nil, fmt.Errorf("%w: record %d repeats url %s of record %d", heapstack.ErrDuplicateItem, i, r.URL, prev)
		}
		seen[r.URL] = i

		it := heapstack.Item{
			ID:         r.URL,
			Name:       r.Name,
			Popularity: *r.Popularity,
			Topics:     r.Topics,
			Starred:    r.Starred,
			Readme:     r.Readme,
		}
		if r.Description != nil {
			it.Description = *r.Description
		}
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		items = append(items, it)
	}
	return items, nil
}
