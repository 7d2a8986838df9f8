package source

import (
	"context"
	"fmt"
	"os"

	"github.com/Pallavbh23/heapstack"
	"gopkg.in/yaml.v3"
)

// File reads records from a YAML or JSON file holding a list of records.
type File struct {
	Path string
}

func (f File) Load(ctx context.Context) ([]heapstack.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}

	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse items in %s: %w", f.Path, err)
	}
	return ToItems(records)
}
