package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/copair/internal/ingest"
	"github.com/roach88/copair/internal/overlap"
)

// DefaultReference resolves open bounds in scenarios that omit "now".
var DefaultReference = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Scenario defines one overlap test case.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Now is the reference instant (RFC 3339 or YYYY-MM-DD).
	Now string `yaml:"now,omitempty"`

	// Header is the header detection mode; empty means auto.
	Header string `yaml:"header,omitempty"`

	// Layouts overrides the date layouts.
	Layouts []string `yaml:"layouts,omitempty"`

	// Workers > 1 forces the chunked scan regardless of row count.
	Workers int `yaml:"workers,omitempty"`

	// Rows are the raw table rows, header included if any.
	Rows []RawRow `yaml:"rows"`

	// Assertions validate the computed report.
	Assertions []Assertion `yaml:"assertions"`
}

// RawRow is one table row. Cells keep their YAML source text, so
// unquoted NULL stays "NULL" rather than becoming empty.
type RawRow []string

// UnmarshalYAML reads a sequence of scalars verbatim.
func (r *RawRow) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: row must be a sequence", node.Line)
	}
	cells := make([]string, len(node.Content))
	for i, c := range node.Content {
		if c.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: row cell %d must be a scalar", c.Line, i)
		}
		cells[i] = c.Value
	}
	*r = cells
	return nil
}

// Assertion validates one property of the report.
type Assertion struct {
	// Type is one of pair_days, pair_count, top_pair, no_top, diagnostic_count.
	Type string `yaml:"type"`

	// Low, High and Project identify a pair (pair_days, top_pair).
	// Low and High may be given in either order.
	Low     int64 `yaml:"low,omitempty"`
	High    int64 `yaml:"high,omitempty"`
	Project int64 `yaml:"project,omitempty"`

	// Days is the expected total (required by pair_days, optional for top_pair).
	Days *int64 `yaml:"days,omitempty"`

	// Count is the expected number (pair_count, diagnostic_count).
	Count *int `yaml:"count,omitempty"`

	// Code restricts diagnostic_count to one diagnostic code.
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertPairDays        = "pair_days"
	AssertPairCount       = "pair_count"
	AssertTopPair         = "top_pair"
	AssertNoTop           = "no_top"
	AssertDiagnosticCount = "diagnostic_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// Reference returns the scenario's reference instant.
func (s *Scenario) Reference() (time.Time, error) {
	if s.Now == "" {
		return DefaultReference, nil
	}
	return overlap.ParseReference(s.Now)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Rows == nil {
		return fmt.Errorf("rows list is required (use [] for an empty table)")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if _, err := s.Reference(); err != nil {
		return fmt.Errorf("now: %w", err)
	}

	switch s.Header {
	case "", ingest.HeaderAuto, ingest.HeaderAlways, ingest.HeaderNever:
	default:
		return fmt.Errorf("header must be one of auto, always, never; got %q", s.Header)
	}

	if s.Workers < 0 {
		return fmt.Errorf("workers must be non-negative")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertPairDays:
		if a.Low == a.High {
			return fmt.Errorf("assertions[%d]: low and high must differ for pair_days", index)
		}
		if a.Days == nil {
			return fmt.Errorf("assertions[%d]: days is required for pair_days", index)
		}
		if *a.Days < 0 {
			return fmt.Errorf("assertions[%d]: days must be non-negative for pair_days", index)
		}
	case AssertTopPair:
		if a.Low == a.High {
			return fmt.Errorf("assertions[%d]: low and high must differ for top_pair", index)
		}
	case AssertPairCount, AssertDiagnosticCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertNoTop:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
