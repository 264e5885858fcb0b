package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance scenario over one document file.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are stored
	// under this name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Document is the path to the YAML document file to load.
	// Relative paths are resolved against the scenario file location.
	Document string `yaml:"document"`

	// Schemas optionally names a directory of CUE schema definitions.
	// When empty the default prose definitions are used.
	Schemas string `yaml:"schemas,omitempty"`

	// Assertions validate the resolved tree and the filled storage table.
	// Supported types: id_present, anchor_bound, node_count, storage_key.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one property of the pipeline's output.
type Assertion struct {
	// Type specifies the assertion type:
	// - "id_present": some node in the resolved tree carries ID
	// - "anchor_bound": the named anchor resolved to the given ID
	// - "node_count": nodes of Schema appear exactly Count times
	// - "storage_key": the table holds Key with the Expect fields
	Type string `yaml:"type"`

	// ID is the expected identifier (id_present, anchor_bound).
	ID string `yaml:"id,omitempty"`

	// Anchor is the anchor name (anchor_bound).
	Anchor string `yaml:"anchor,omitempty"`

	// Schema is the schema name to count (node_count).
	Schema string `yaml:"schema,omitempty"`

	// Count is the expected number of nodes (node_count).
	Count int `yaml:"count,omitempty"`

	// Key is the storage key to look up (storage_key).
	Key string `yaml:"key,omitempty"`

	// Expect contains expected storage value fields (storage_key).
	// Subset match - only specified fields are validated.
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertIDPresent   = "id_present"
	AssertAnchorBound = "anchor_bound"
	AssertNodeCount   = "node_count"
	AssertStorageKey  = "storage_key"
)

// LoadScenario reads and parses a scenario YAML file. Document and schema
// paths are resolved relative to the scenario file's directory. Unknown
// fields are rejected to catch typos.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	if scenario.Document != "" && !filepath.IsAbs(scenario.Document) {
		scenario.Document = filepath.Join(base, scenario.Document)
	}
	if scenario.Schemas != "" && !filepath.IsAbs(scenario.Schemas) {
		scenario.Schemas = filepath.Join(base, scenario.Schemas)
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
	if s.Document == "" {
		return fmt.Errorf("document is required")
	}
	if _, err := os.Stat(s.Document); os.IsNotExist(err) {
		return fmt.Errorf("document file not found: %s", s.Document)
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
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
	case AssertIDPresent:
		if a.ID == "" {
			return fmt.Errorf("assertions[%d]: id is required for id_present", index)
		}
	case AssertAnchorBound:
		if a.Anchor == "" {
			return fmt.Errorf("assertions[%d]: anchor is required for anchor_bound", index)
		}
	case AssertNodeCount:
		if a.Schema == "" {
			return fmt.Errorf("assertions[%d]: schema is required for node_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for node_count", index)
		}
	case AssertStorageKey:
		if a.Key == "" {
			return fmt.Errorf("assertions[%d]: key is required for storage_key", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
