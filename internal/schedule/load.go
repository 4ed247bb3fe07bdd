package schedule

import (
	"fmt"

	"github.com/rgehrsitz/lktax/internal/config"
)

// LoadSnapshot builds a snapshot from the embedded rate tables, overlaid with
// ratesFile when it is not empty.
func LoadSnapshot(ratesFile string) (*Snapshot, error) {
	parser := config.NewInputParser()

	defaults, err := parser.LoadDefaults()
	if err != nil {
		return nil, fmt.Errorf("failed to load default rate tables: %w", err)
	}
	snap, err := NewSnapshot(defaults)
	if err != nil {
		return nil, err
	}
	if ratesFile == "" {
		return snap, nil
	}

	custom, err := parser.LoadFromFile(ratesFile)
	if err != nil {
		return nil, err
	}
	overlay, err := NewSnapshot(custom)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ratesFile, err)
	}
	return snap.Merge(overlay), nil
}

// LoadStore is LoadSnapshot wrapped in a Store
func LoadStore(ratesFile string) (*Store, error) {
	snap, err := LoadSnapshot(ratesFile)
	if err != nil {
		return nil, err
	}
	return NewStore(snap), nil
}
