package heapstack

import (
	"fmt"
)

// Item is a project card. Identity is by ID (typically the repository URL).
type Item struct {
	ID          string
	Name        string
	Description string
	Popularity  int

	Topics  []string // display only
	Starred bool     // the owner starred this repository; display only
	Readme  string   // leading README excerpt; display only
}

// Validate reports whether the item is well-formed enough to be ranked.
func (it Item) Validate() error {
	if it.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidItem)
	}
	if it.Name == "" {
		return fmt.Errorf("%w: missing name for %s", ErrInvalidItem, it.ID)
	}
	if it.Popularity < 0 {
		return fmt.Errorf("%w: negative popularity %d for %s", ErrInvalidItem, it.Popularity, it.ID)
	}
	return nil
}
