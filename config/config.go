// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration of the mrml tools.
// Settings are layered: `default:` struct tags, then a TOML or YAML
// config file, then .env files, then MRML_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/reflectx"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of the environment variables that override
// config settings.
const EnvPrefix = "MRML_"

// DefaultListen is the default address of the remote server. It is set
// in [Default] since default tags can not hold host:port values.
const DefaultListen = "localhost:8080"

// Config is the configuration of the mrml tools.
type Config struct {

	// ModulePaths are the directories searched for command line modules.
	ModulePaths []string `toml:"module_paths" yaml:"module_paths"`

	// CachePath is the path of the module description cache database.
	// Caching is turned off if it is empty.
	CachePath string `toml:"cache_path" yaml:"cache_path" default:"~/.cache/mrml/modules.db"`

	// TempDir is the parent directory of the command line module run directories.
	TempDir string `toml:"temp_dir" yaml:"temp_dir"`

	// Timeout is how long a module has to print its XML description,
	// as a [time.ParseDuration] string.
	Timeout string `toml:"timeout" yaml:"timeout" default:"5s"`

	// Listen is the address that the remote server listens on.
	// It defaults to [DefaultListen].
	Listen string `toml:"listen" yaml:"listen"`

	// LogLevel is the minimum level of log messages that are shown.
	LogLevel string `toml:"log_level" yaml:"log_level" default:"info"`

	// DefaultUnits are the names of the units made the default for
	// their quantity when a scene is created.
	DefaultUnits []string `toml:"default_units" yaml:"default_units"`
}

// Default returns a new config with all of the default values set.
func Default() *Config {
	c := &Config{Listen: DefaultListen}
	errors.Log(reflectx.SetFromDefaultTags(c))
	return c
}

// Load returns the default config overridden by the given config file
// (if non-empty), the given .env files (missing ones are skipped) and
// the process environment, in that order.
func Load(file string, envFiles ...string) (*Config, error) {
	c := Default()
	if file != "" {
		if err := c.Open(file); err != nil {
			return nil, err
		}
	}
	env, err := readEnvFiles(envFiles...)
	if err != nil {
		return nil, err
	}
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, EnvPrefix) {
			env[k] = v
		}
	}
	if err := c.ApplyEnv(env); err != nil {
		return nil, err
	}
	return c, c.Validate()
}

func readEnvFiles(files ...string) (map[string]string, error) {
	env := map[string]string{}
	for _, f := range files {
		f, err := homedir.Expand(f)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		m, err := godotenv.Read(f)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", f, err)
		}
		for k, v := range m {
			env[k] = v
		}
	}
	return env, nil
}

// Open reads the given TOML or YAML config file into the config,
// choosing the format from the file extension.
func (c *Config) Open(file string) error {
	file, err := homedir.Expand(file)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(file)) {
	case ".toml":
		err = toml.Unmarshal(b, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, c)
	default:
		return fmt.Errorf("config: unknown config file format %q", filepath.Ext(file))
	}
	if err != nil {
		return fmt.Errorf("config: parsing %s: %w", file, err)
	}
	return nil
}

// Save writes the config to the given TOML or YAML file.
func (c *Config) Save(file string) error {
	var b []byte
	var err error
	switch strings.ToLower(filepath.Ext(file)) {
	case ".toml":
		b, err = toml.Marshal(c)
	case ".yaml", ".yml":
		b, err = yaml.Marshal(c)
	default:
		return fmt.Errorf("config: unknown config file format %q", filepath.Ext(file))
	}
	if err != nil {
		return err
	}
	return os.WriteFile(file, b, 0o644)
}

// ApplyEnv sets the config from the MRML_* keys of the given environment.
// List values are separated by [os.PathListSeparator] for paths and
// by commas otherwise.
func (c *Config) ApplyEnv(env map[string]string) error {
	for k, v := range env {
		name, ok := strings.CutPrefix(k, EnvPrefix)
		if !ok {
			continue
		}
		switch name {
		case "MODULE_PATHS":
			c.ModulePaths = filepath.SplitList(v)
		case "CACHE_PATH":
			c.CachePath = v
		case "TEMP_DIR":
			c.TempDir = v
		case "TIMEOUT":
			c.Timeout = v
		case "LISTEN":
			c.Listen = v
		case "LOG_LEVEL":
			c.LogLevel = v
		case "DEFAULT_UNITS":
			c.DefaultUnits = strings.Split(v, ",")
		}
	}
	return nil
}

// Validate expands ~ in the paths of the config and checks its values.
func (c *Config) Validate() error {
	var errs []error
	for i, p := range c.ModulePaths {
		c.ModulePaths[i] = expand(p, &errs)
	}
	c.CachePath = expand(c.CachePath, &errs)
	c.TempDir = expand(c.TempDir, &errs)
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("config: invalid timeout: %w", err))
	}
	return errors.Join(errs...)
}

func expand(p string, errs *[]error) string {
	e, err := homedir.Expand(p)
	if err != nil {
		*errs = append(*errs, err)
		return p
	}
	return e
}

// TimeoutDuration returns [Config.Timeout] as a duration, or 0 if it is invalid.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}
