package attrstore

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/attrstore/column"
	"github.com/hupe1980/attrstore/timeindex"
	"github.com/hupe1980/attrstore/timemap"
	"github.com/hupe1980/attrstore/value"
)

// Config contains the store-wide settings. They are fixed once the store
// is built.
type Config struct {
	// TimeRepresentation selects timestamp or interval time keys.
	TimeRepresentation timeindex.Representation `yaml:"time_representation"`

	// EnableElementLabel allows writes to the reserved label column.
	EnableElementLabel bool `yaml:"enable_element_label"`

	// EnableElementTimeSet allows per-element time membership.
	EnableElementTimeSet bool `yaml:"enable_element_time_set"`

	// DefaultEstimator is used for range reads on dynamic columns that
	// declare no estimator of their own.
	DefaultEstimator timemap.Estimator `yaml:"default_estimator"`

	// LockOrderChecks panics when an element lock is held while the store
	// lock is acquired. Intended for tests.
	LockOrderChecks bool `yaml:"lock_order_checks"`

	// NodeColumns and EdgeColumns are registered at construction.
	NodeColumns []ColumnConfig `yaml:"node_columns"`
	EdgeColumns []ColumnConfig `yaml:"edge_columns"`
}

// ColumnConfig declares a column in a config file.
type ColumnConfig struct {
	ID        string            `yaml:"id"`
	Title     string            `yaml:"title,omitempty"`
	Type      value.Kind        `yaml:"type"`
	Dynamic   bool              `yaml:"dynamic,omitempty"`
	Default   string            `yaml:"default,omitempty"`
	Indexed   bool              `yaml:"indexed,omitempty"`
	ReadOnly  bool              `yaml:"read_only,omitempty"`
	Estimator timemap.Estimator `yaml:"estimator,omitempty"`
}

// Spec converts the declaration, parsing Default with the column type.
func (c ColumnConfig) Spec() (column.Spec, error) {
	s := column.Spec{
		ID:        c.ID,
		Title:     c.Title,
		Type:      c.Type,
		Dynamic:   c.Dynamic,
		Indexed:   c.Indexed,
		ReadOnly:  c.ReadOnly,
		Estimator: c.Estimator,
		Default:   value.Null(),
	}
	if c.Default != "" {
		if !c.Type.Valid() {
			return s, &column.InvalidSpecError{ID: c.ID, Reason: "invalid type " + c.Type.String()}
		}
		v, err := value.Parse(c.Type, c.Default)
		if err != nil {
			return s, &column.InvalidSpecError{ID: c.ID, Reason: "default: " + err.Error()}
		}
		s.Default = v
	}
	return column.Validate(s)
}

// DefaultConfig returns the default configuration: timestamp keys, labels
// and time sets enabled, First as the default estimator.
func DefaultConfig() Config {
	return Config{
		TimeRepresentation:   timeindex.RepresentationTimestamp,
		EnableElementLabel:   true,
		EnableElementTimeSet: true,
		DefaultEstimator:     timemap.First,
	}
}

// Validate checks the configuration, including every declared column.
func (c Config) Validate() error {
	switch c.TimeRepresentation {
	case timeindex.RepresentationTimestamp, timeindex.RepresentationInterval:
	default:
		return &ErrInvalidConfig{Field: "time_representation", Reason: c.TimeRepresentation.String()}
	}
	if !c.DefaultEstimator.Valid() {
		return &ErrInvalidConfig{Field: "default_estimator", Reason: "must be one of min, max, first, last, average, sum"}
	}
	for field, cols := range map[string][]ColumnConfig{"node_columns": c.NodeColumns, "edge_columns": c.EdgeColumns} {
		seen := make(map[string]bool, len(cols))
		for _, cc := range cols {
			s, err := cc.Spec()
			if err != nil {
				return &ErrInvalidConfig{Field: field, Reason: "column " + strconv.Quote(cc.ID), cause: err}
			}
			key := column.Normalize(s.ID)
			if seen[key] || column.IsReserved(key) {
				return &ErrInvalidConfig{Field: field, Reason: "duplicate column " + strconv.Quote(cc.ID)}
			}
			seen[key] = true
		}
	}
	return nil
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ErrInvalidConfig{Field: "yaml", Reason: "decode", cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML config file, applies ATTRSTORE_* environment
// overrides and validates the result. An empty path yields the defaults
// plus overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, &ErrInvalidConfig{Field: "yaml", Reason: "decode " + path, cause: err}
		}
	}
	if err := loadConfigFromEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadConfigFromEnv(cfg *Config) error {
	if v := os.Getenv("ATTRSTORE_TIME_REPRESENTATION"); v != "" {
		if err := cfg.TimeRepresentation.UnmarshalText([]byte(v)); err != nil {
			return &ErrInvalidConfig{Field: "ATTRSTORE_TIME_REPRESENTATION", Reason: v, cause: err}
		}
	}
	if v := os.Getenv("ATTRSTORE_DEFAULT_ESTIMATOR"); v != "" {
		if err := cfg.DefaultEstimator.UnmarshalText([]byte(v)); err != nil {
			return &ErrInvalidConfig{Field: "ATTRSTORE_DEFAULT_ESTIMATOR", Reason: v, cause: err}
		}
	}
	for name, dst := range map[string]*bool{
		"ATTRSTORE_ENABLE_ELEMENT_LABEL":    &cfg.EnableElementLabel,
		"ATTRSTORE_ENABLE_ELEMENT_TIME_SET": &cfg.EnableElementTimeSet,
		"ATTRSTORE_LOCK_ORDER_CHECKS":       &cfg.LockOrderChecks,
	} {
		if v := os.Getenv(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return &ErrInvalidConfig{Field: name, Reason: v, cause: err}
			}
			*dst = b
		}
	}
	return nil
}
