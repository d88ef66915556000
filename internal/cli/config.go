package cli

import (
	stderrors "errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/toyz/dendrite/internal/errors"
)

// Environment variables use this prefix, e.g. DENDRITE_MODULE
const EnvPrefix = "DENDRITE"

// Config holds the configuration for every CLI command
type Config struct {
	// Directories is the list of directories to scan for annotated Go files.
	// A trailing "/..." scans recursively.
	Directories []string `mapstructure:"directories"`

	// ModuleName overrides the module path read from go.mod
	ModuleName string `mapstructure:"module"`

	// Name is the command name for top-level types without one.
	// Defaults to the last element of the module path.
	Name string `mapstructure:"name"`

	// Description is the description for top-level types without one
	Description string `mapstructure:"description"`

	// DryRun prints what would be written without touching files
	DryRun bool `mapstructure:"dry_run"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `mapstructure:"verbose"`

	// Quiet reports errors only
	Quiet bool `mapstructure:"quiet"`

	// Addr is the listen address of the schema host
	Addr string `mapstructure:"addr"`

	// Engine selects the schema host's web framework: echo, gin or fiber
	Engine string `mapstructure:"engine"`
}

var configKeys = []string{
	"directories", "module", "name", "description", "dry_run",
	"verbose", "quiet", "addr", "engine",
}

// LoadOptions control where configuration is read from
type LoadOptions struct {
	// ConfigFile is an explicit config file; when empty .dendrite.yaml is
	// searched for in the working directory
	ConfigFile string
	// EnvFile is loaded into the environment before reading variables
	EnvFile string
}

// NewViper creates a viper instance with the CLI's defaults and env binding
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("directories", []string{"./..."})
	v.SetDefault("addr", ":8080")
	v.SetDefault("engine", "echo")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys viper already knows about
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// LoadConfig reads the env file, the config file and the environment into
// a Config. Flags bound to v take precedence over all of them.
func LoadConfig(v *viper.Viper, opts LoadOptions) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapConfigurationError("env file", "load", err)
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(".dendrite")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !stderrors.As(err, &notFound) {
			return nil, errors.WrapConfigurationError("config file", "read", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapConfigurationError("config", "decode", err)
	}
	if cfg.Verbose && cfg.Quiet {
		return nil, errors.New(errors.ConfigurationErrorCode, "verbose and quiet cannot both be set").
			WithSuggestion("drop one of --verbose or --quiet")
	}
	return &cfg, nil
}
