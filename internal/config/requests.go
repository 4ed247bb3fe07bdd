package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/lktax/internal/domain"
	"gopkg.in/yaml.v3"
)

// scalar captures any YAML scalar as its literal text
type scalar string

func (s *scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	*s = scalar(node.Value)
	return nil
}

// BatchFile is the on-disk layout of a batch of calculation requests
type BatchFile struct {
	Defaults RequestEntry   `yaml:"defaults"`
	Requests []RequestEntry `yaml:"requests"`
}

// RequestEntry is one request in a batch file. Empty fields inherit from defaults.
type RequestEntry struct {
	Name    string `yaml:"name"`
	Type    scalar `yaml:"type"`
	Period  scalar `yaml:"period"`
	Amount  scalar `yaml:"amount"`
	Year    scalar `yaml:"year"`
	SubType scalar `yaml:"sub_type"`
}

// NamedRequest pairs a parsed request with its label in the batch
type NamedRequest struct {
	Name    string
	Request domain.CalculationRequest
}

// LoadRequests reads a batch file. fallbackYear is used when neither the request
// nor the defaults name a year.
func (ip *InputParser) LoadRequests(filename string, fallbackYear domain.TaxYear) ([]NamedRequest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseRequests(data, fallbackYear)
}

// ParseRequests decodes a batch file held in memory
func (ip *InputParser) ParseRequests(data []byte, fallbackYear domain.TaxYear) ([]NamedRequest, error) {
	var file BatchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(file.Requests) == 0 {
		return nil, fmt.Errorf("%w: no requests provided", domain.ErrInvalidInput)
	}

	out := make([]NamedRequest, 0, len(file.Requests))
	for i, entry := range file.Requests {
		merged := entry.withDefaults(file.Defaults)
		if merged.Year == "" {
			merged.Year = scalar(fallbackYear)
		}
		name := merged.Name
		if name == "" {
			name = fmt.Sprintf("request-%d", i+1)
		}

		req, err := domain.NewCalculationRequest(
			string(merged.Type),
			string(merged.Period),
			string(merged.Amount),
			string(merged.Year),
			string(merged.SubType),
		)
		if err != nil {
			return nil, fmt.Errorf("request %d (%s): %w", i+1, name, err)
		}
		out = append(out, NamedRequest{Name: name, Request: req})
	}
	return out, nil
}

func (e RequestEntry) withDefaults(def RequestEntry) RequestEntry {
	pick := func(v, fallback scalar) scalar {
		if v == "" {
			return fallback
		}
		return v
	}
	e.Type = pick(e.Type, def.Type)
	e.Period = pick(e.Period, def.Period)
	e.Amount = pick(e.Amount, def.Amount)
	e.Year = pick(e.Year, def.Year)
	e.SubType = pick(e.SubType, def.SubType)
	return e
}
