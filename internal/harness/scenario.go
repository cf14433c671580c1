package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/condex/internal/condition"
	"github.com/roach88/condex/internal/config"
)

// Scenario defines a conformance test scenario: one condition tree
// compiled under one configuration.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config is decoded over config.Default().
	Config config.Config `yaml:"config"`

	// Condition is the tree to compile. It may be empty to exercise
	// structural errors.
	Condition condition.Tree `yaml:"condition"`

	// Documents are indexed into every engine before the compiled query
	// runs. Without documents no hits are recorded.
	Documents []Document `yaml:"documents,omitempty"`

	// Assertions validate the compile result and hits.
	Assertions []Assertion `yaml:"assertions"`
}

// Document is one scenario document with raw field values.
type Document struct {
	ID     uint32            `yaml:"id"`
	Fields map[string]string `yaml:"fields"`
}

// Assertion validates one aspect of the result.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Value is the expected rendering (query).
	Value string `yaml:"value,omitempty"`

	// Codes are the expected degraded leaf codes in document order
	// (degraded). Empty asserts that nothing degraded.
	Codes []string `yaml:"codes,omitempty"`

	// Code is the expected compile error code (error).
	Code string `yaml:"code,omitempty"`

	// Engine restricts a hits assertion to one engine. Empty checks all.
	Engine string `yaml:"engine,omitempty"`

	// Hits are the expected document IDs in ascending order (hits).
	Hits []uint32 `yaml:"hits,omitempty"`
}

// Assertion type constants.
const (
	AssertQuery    = "query"
	AssertDegraded = "degraded"
	AssertError    = "error"
	AssertHits     = "hits"
)

// Engine names used in hits assertions and snapshots.
const (
	EngineMemory = "memory"
	EngineSQLite = "sqlite"
)

// Engines lists every engine a scenario runs against.
var Engines = []string{EngineMemory, EngineSQLite}

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

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	scenario := Scenario{Config: *config.Default()}
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

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if err := s.Config.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	seen := make(map[uint32]bool, len(s.Documents))
	for i, doc := range s.Documents {
		if seen[doc.ID] {
			return fmt.Errorf("documents[%d]: duplicate id %d", i, doc.ID)
		}
		seen[doc.ID] = true
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, len(s.Documents) > 0); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, hasDocuments bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertQuery, AssertDegraded:
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	case AssertHits:
		if !hasDocuments {
			return fmt.Errorf("assertions[%d]: hits requires documents", index)
		}
		if a.Engine != "" && a.Engine != EngineMemory && a.Engine != EngineSQLite {
			return fmt.Errorf("assertions[%d]: unknown engine %q", index, a.Engine)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
