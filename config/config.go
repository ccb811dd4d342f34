package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/viant/structgraph"
	"github.com/viant/structgraph/metadata"
	"github.com/viant/tagly/format/text"
	"go.uber.org/zap"
)

// EnvPrefix prefixes environment variables overriding config keys, i.e. STRUCTGRAPH_MAX_DEPTH
const EnvPrefix = "STRUCTGRAPH"

// Config represents transformer configuration
type Config struct {
	TagName         string `mapstructure:"tag_name"`
	CaseFormat      string `mapstructure:"case_format"`
	TimeLayout      string `mapstructure:"time_layout"`
	MaxDepth        int    `mapstructure:"max_depth"`
	NilSliceAsEmpty bool   `mapstructure:"nil_slice_as_empty"`
	Strict          bool   `mapstructure:"strict"`
	Debug           bool   `mapstructure:"debug"`
}

// Load loads configuration from file, defaults and environment, empty path looks up structgraph.yaml in working directory
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("tag_name", "json")
	v.SetDefault("case_format", "")
	v.SetDefault("time_layout", "")
	v.SetDefault("max_depth", structgraph.DefaultMaxDepth)
	v.SetDefault("nil_slice_as_empty", false)
	v.SetDefault("strict", false)
	v.SetDefault("debug", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("structgraph")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks config values
func (c *Config) Validate() error {
	if c.CaseFormat != "" && !text.NewCaseFormat(c.CaseFormat).IsDefined() {
		return fmt.Errorf("unsupported case_format: %v", c.CaseFormat)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got: %v", c.MaxDepth)
	}
	return nil
}

// Registry creates metadata registry for configured tag name and case format
func (c *Config) Registry() *metadata.Registry {
	var opts []metadata.RegistryOption
	if c.TagName != "" {
		opts = append(opts, metadata.WithTagName(c.TagName))
	}
	if c.CaseFormat != "" {
		opts = append(opts, metadata.WithCaseFormat(text.NewCaseFormat(c.CaseFormat)))
	}
	if c.Strict {
		opts = append(opts, metadata.WithStrict(true))
	}
	return metadata.New(opts...)
}

// Logger creates development logger in debug mode, no-op logger otherwise
func (c *Config) Logger() (*zap.Logger, error) {
	if !c.Debug {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

// Options returns transformer options, registry is shared by transformers created with returned options
func (c *Config) Options() ([]structgraph.Option, error) {
	logger, err := c.Logger()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return []structgraph.Option{
		structgraph.WithLookup(c.Registry()),
		structgraph.WithLogger(logger),
		structgraph.WithMaxDepth(c.MaxDepth),
		structgraph.WithTimeLayout(c.TimeLayout),
		structgraph.WithNilSliceAsEmpty(c.NilSliceAsEmpty),
	}, nil
}
