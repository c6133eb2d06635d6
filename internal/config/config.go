// Package config loads settings for the datafile CLI and MCP server.
//
// Values come from, in increasing priority: struct tag defaults, an optional
// datafile.yaml or datafile.toml file, a .env file and DATAFILE_* environment
// variables. Nested keys map to variables by joining with underscores, so
// refs.concurrency is DATAFILE_REFS_CONCURRENCY.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/erraggy/datafile/dferrors"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "DATAFILE"

// Config holds all settings.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Walk   WalkConfig   `mapstructure:"walk"`
	Refs   RefsConfig   `mapstructure:"refs"`
	MCP    MCPConfig    `mapstructure:"mcp"`
	Output OutputConfig `mapstructure:"output"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `mapstructure:"level" default:"info"`
	// Format is console or json.
	Format string `mapstructure:"format" default:"console"`
}

// WalkConfig holds directory listing defaults.
type WalkConfig struct {
	Recurse bool `mapstructure:"recurse" default:"true"`
}

// RefsConfig holds reference resolution defaults.
type RefsConfig struct {
	Concurrency int  `mapstructure:"concurrency" default:"8"`
	AllowRemote bool `mapstructure:"allow_remote" default:"false"`
}

// MCPConfig holds MCP server limits.
type MCPConfig struct {
	// MaxFiles caps the number of files a single tool call lists or merges.
	MaxFiles        int  `mapstructure:"max_files" default:"1000"`
	AllowPrivateIPs bool `mapstructure:"allow_private_ips" default:"false"`
}

// OutputConfig holds writer settings.
type OutputConfig struct {
	// FileMode is the octal permission of written files.
	FileMode string `mapstructure:"file_mode" default:"0644"`
}

// Mode parses FileMode.
func (o OutputConfig) Mode() (os.FileMode, error) {
	n, err := strconv.ParseUint(o.FileMode, 8, 32)
	if err != nil || os.FileMode(n)&^os.ModePerm != 0 {
		return 0, &dferrors.ConfigError{Option: "output.file_mode", Value: o.FileMode, Message: "must be octal permission bits", Cause: err}
	}
	return os.FileMode(n), nil
}

// Load reads the configuration. dir is searched for .env and the config
// file; an empty dir means the working directory. Missing files are not an
// error.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = "."
	}

	if err := godotenv.Overload(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, &dferrors.ConfigError{Option: ".env", Value: filepath.Join(dir, ".env"), Message: "cannot load", Cause: err}
	}

	v := viper.New()
	bindDefaults(v, Config{}, "")

	v.SetConfigName("datafile")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &dferrors.ConfigError{Option: "config file", Value: dir, Message: "cannot read", Cause: err}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &dferrors.ConfigError{Option: "config", Message: "cannot decode", Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return &dferrors.ConfigError{Option: "log.level", Value: c.Log.Level, Message: "must be debug, info, warn or error"}
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return &dferrors.ConfigError{Option: "log.format", Value: c.Log.Format, Message: "must be console or json"}
	}
	if c.Refs.Concurrency < 1 {
		return &dferrors.ConfigError{Option: "refs.concurrency", Value: c.Refs.Concurrency, Message: "must be at least 1"}
	}
	if c.MCP.MaxFiles < 1 {
		return &dferrors.ConfigError{Option: "mcp.max_files", Value: c.MCP.MaxFiles, Message: "must be at least 1"}
	}
	if _, err := c.Output.Mode(); err != nil {
		return err
	}
	return nil
}

// String renders the configuration as key=value lines.
func (c *Config) String() string {
	return fmt.Sprintf("log.level=%s\nlog.format=%s\nwalk.recurse=%t\nrefs.concurrency=%d\nrefs.allow_remote=%t\nmcp.max_files=%d\nmcp.allow_private_ips=%t\noutput.file_mode=%s\n",
		c.Log.Level, c.Log.Format, c.Walk.Recurse, c.Refs.Concurrency, c.Refs.AllowRemote,
		c.MCP.MaxFiles, c.MCP.AllowPrivateIPs, c.Output.FileMode)
}

// bindDefaults registers every mapstructure key with its default tag so
// AutomaticEnv can find it.
func bindDefaults(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if field.Type.Kind() == reflect.Struct {
			bindDefaults(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
