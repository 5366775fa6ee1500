package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds output settings and the inference heuristics. Everything
// has a compiled-in default; an ormgen.yaml file overrides selectively.
type Config struct {
	Output     Output     `yaml:"output"`
	Heuristics Heuristics `yaml:"heuristics"`
}

type Output struct {
	Dir     string `yaml:"dir"`
	Package string `yaml:"package"`
}

// Heuristics are policy constants, not structural guarantees, so they are
// configurable rather than hard-coded.
type Heuristics struct {
	// MaxJunctionMetadataColumns is the number of non-FK columns a table
	// may carry and still classify as a pure junction (timestamps, audit
	// columns and the like).
	MaxJunctionMetadataColumns int `yaml:"max_junction_metadata_columns"`
	// SelfRefPropertyNames maps FK column names to preferred property
	// names for self-referencing many-to-one relations.
	SelfRefPropertyNames map[string]string `yaml:"self_ref_property_names"`
	// SelfRefCollectionNames maps FK column names to collection names for
	// the inverse (one-to-many) side of self references.
	SelfRefCollectionNames map[string]string `yaml:"self_ref_collection_names"`
	// PluralAllowList lists words that are already plural and must pass
	// through pluralization unchanged.
	PluralAllowList []string `yaml:"plural_allow_list"`
}

func Default() *Config {
	return &Config{
		Output: Output{
			Dir:     "generated",
			Package: "entities",
		},
		Heuristics: Heuristics{
			MaxJunctionMetadataColumns: 5,
			SelfRefPropertyNames: map[string]string{
				"parent_id":     "parent",
				"manager_id":    "manager",
				"leader_id":     "leader",
				"supervisor_id": "supervisor",
			},
			SelfRefCollectionNames: map[string]string{
				"parent_id":     "children",
				"manager_id":    "subordinates",
				"leader_id":     "members",
				"supervisor_id": "supervisees",
			},
			PluralAllowList: []string{
				"children", "people", "data", "media", "news",
				"series", "species", "feedback", "equipment", "staff",
			},
		},
	}
}

// Load reads the config file at path. A missing file is not an error: the
// defaults apply. Values present in the file override defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Heuristics.MaxJunctionMetadataColumns < 0 {
		return fmt.Errorf("max_junction_metadata_columns must be >= 0, got %d",
			c.Heuristics.MaxJunctionMetadataColumns)
	}
	if c.Output.Package == "" {
		return fmt.Errorf("output package name must not be empty")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output dir must not be empty")
	}
	return nil
}

// AlreadyPlural returns the allow-list as a lookup set.
func (h Heuristics) AlreadyPlural() map[string]bool {
	set := make(map[string]bool, len(h.PluralAllowList))
	for _, w := range h.PluralAllowList {
		set[w] = true
	}
	return set
}
