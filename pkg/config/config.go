package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/travigo/etastation/pkg/ctdf"
	"github.com/travigo/etastation/pkg/fetch"
	"github.com/travigo/etastation/pkg/util"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "conf/etastation.yaml"

const (
	defaultDataDir  = "data"
	defaultTimezone = "Asia/Hong_Kong"
)

type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`
	UserAgent string        `yaml:"user_agent"`
}

type CacheConfig struct {
	Redis   bool          `yaml:"redis"`
	Address string        `yaml:"address"`
	TTL     time.Duration `yaml:"ttl" validate:"gte=0"`
}

type MetadataConfig struct {
	// Thresholds overrides the staleness threshold in days per operator
	Thresholds map[ctdf.OperatorID]int `yaml:"thresholds,omitempty" validate:"dive,keys,oneof=kmb mtr_lrt mtr_bus mtr_train,endkeys,gte=0"`
}

type DisplayConfig struct {
	Slots int `yaml:"slots" validate:"gte=1,lte=3"`
}

type Config struct {
	DataDir  string `yaml:"data_dir" validate:"required"`
	Timezone string `yaml:"timezone" validate:"required"`

	HTTP     HTTPConfig     `yaml:"http"`
	Cache    CacheConfig    `yaml:"cache"`
	Metadata MetadataConfig `yaml:"metadata"`
	Display  DisplayConfig  `yaml:"display"`

	Entries []ctdf.BoardEntry `yaml:"entries" validate:"dive"`
}

func Default() *Config {
	return &Config{
		DataDir:  defaultDataDir,
		Timezone: defaultTimezone,
		HTTP: HTTPConfig{
			Timeout:   fetch.DefaultTimeout,
			UserAgent: fetch.DefaultUserAgent,
		},
		Cache: CacheConfig{
			TTL: fetch.DefaultCacheTTL,
		},
		Display: DisplayConfig{
			Slots: ctdf.MaxArrivals,
		},
		Entries: []ctdf.BoardEntry{},
	}
}

// Load reads the settings file at path over the defaults. A missing file
// gives the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return err
	}

	for i, entry := range c.Entries {
		if !entry.Direction.Valid() {
			return fmt.Errorf("entry %d has unknown direction %q", i, entry.Direction)
		}
	}

	return nil
}

func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return location
}

// Save writes the settings file, replacing the previous one atomically
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return util.WriteFileAtomic(path, data)
}

// AddEntry appends an entry as produced by the route selection
func (c *Config) AddEntry(entry ctdf.BoardEntry) {
	c.Entries = append(c.Entries, entry)
}
