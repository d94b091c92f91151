// Package config loads stepform settings with viper.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid configuration")

// Config holds the command settings.
type Config struct {
	Endpoint   string        `mapstructure:"endpoint" yaml:"endpoint"`
	Method     string        `mapstructure:"method" yaml:"method"`
	Format     string        `mapstructure:"format" yaml:"format"`
	Locale     string        `mapstructure:"locale" yaml:"locale"`
	Definition string        `mapstructure:"definition" yaml:"definition"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	LogLevel   string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat  string        `mapstructure:"log_format" yaml:"log_format"`
	Sanitize   bool          `mapstructure:"sanitize" yaml:"sanitize"`

	explicit map[string]bool
}

// IsSet reports whether key came from a config file, a STEPFORM_* variable
// or a changed flag rather than from the built-in defaults.
func (c *Config) IsSet(key string) bool {
	return c.explicit[key]
}

var defaults = map[string]any{
	"endpoint":   "https://api.beispiel.de/submit",
	"method":     "POST",
	"format":     "json",
	"locale":     "de",
	"definition": "",
	"timeout":    "15s",
	"log_level":  "info",
	"log_format": "text",
	"sanitize":   true,
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Endpoint:  "https://api.beispiel.de/submit",
		Method:    "POST",
		Format:    "json",
		Locale:    "de",
		Timeout:   15 * time.Second,
		LogLevel:  "info",
		LogFormat: "text",
		Sanitize:  true,
	}
}

// Load resolves configuration with precedence:
// flags > STEPFORM_* env > ./stepform.yml > global config > defaults.
// flags may be nil; only flags the user changed override lower layers.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key, "STEPFORM_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	if path := GlobalPath(); fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}
	if path := ProjectPath(); fileExists(path) {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	explicit := make(map[string]bool)
	for key := range defaults {
		if _, ok := os.LookupEnv("STEPFORM_" + strings.ToUpper(key)); ok || v.InConfig(key) {
			explicit[key] = true
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, known := defaults[key]; !known || bindErr != nil {
				return
			}
			if f.Changed {
				explicit[key] = true
			}
			bindErr = v.BindPFlag(key, f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("binding flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Method = strings.ToUpper(strings.TrimSpace(cfg.Method))
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	cfg.explicit = explicit
	return &cfg, nil
}

// Validate rejects settings the command cannot run with.
func (c *Config) Validate() error {
	var problems []string
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("endpoint %q is not an http(s) URL", c.Endpoint))
	}
	switch c.Format {
	case "json", "form":
	default:
		problems = append(problems, fmt.Sprintf("format %q must be json or form", c.Format))
	}
	if c.Method == "" {
		problems = append(problems, "method is empty")
	}
	if c.Timeout <= 0 {
		problems = append(problems, fmt.Sprintf("timeout %s must be positive", c.Timeout))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// GlobalPath returns $XDG_CONFIG_HOME/stepform/stepform.yml, falling back to
// ~/.config.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stepform", "stepform.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "stepform", "stepform.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "stepform.yml"
}

// WriteProject writes cfg to the project-local config file.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

// WriteGlobal writes cfg to the global config file.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(fileView(cfg))
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileView renders the timeout as a duration string viper can read back.
func fileView(cfg *Config) map[string]any {
	return map[string]any{
		"endpoint":   cfg.Endpoint,
		"method":     cfg.Method,
		"format":     cfg.Format,
		"locale":     cfg.Locale,
		"definition": cfg.Definition,
		"timeout":    cfg.Timeout.String(),
		"log_level":  cfg.LogLevel,
		"log_format": cfg.LogFormat,
		"sanitize":   cfg.Sanitize,
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
