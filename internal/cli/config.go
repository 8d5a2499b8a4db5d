package cli

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	fs "github.com/ungerik/go-fs"
)

// EnvPrefix is the prefix of environment variables
// overriding config file values like SORTABLE_FORMAT=csv
const EnvPrefix = "SORTABLE_"

// DefaultConfigFiles are searched in the working directory
// if no config file is passed explicitly.
var DefaultConfigFiles = []string{"sortable.yaml", "sortable.yml"}

// Config of the sortable commands.
type Config struct {
	// Spec is the YAML column spec file.
	// Without spec every field of the data becomes a column.
	Spec string `koanf:"spec"`
	// Data is a JSON, CSV, or XLSX file or a SQLite database.
	Data string `koanf:"data"`
	// Query selects the records from a SQLite Data file.
	Query string `koanf:"query"`
	// Format of the rendered table: html, text, markdown, csv, or xlsx.
	Format string `koanf:"format"`
	// Output file, stdout if empty.
	Output string `koanf:"output"`
	// Sort overrides the sort state of the spec like "2:desc".
	Sort string `koanf:"sort"`
	// Caption overrides the caption of the spec.
	Caption string `koanf:"caption"`
	// Locale overrides the locale of the spec.
	Locale string `koanf:"locale"`
	// Addr is the listen address of the serve command.
	Addr string `koanf:"addr"`
	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
}

func defaults() map[string]any {
	return map[string]any{
		"format":  "html",
		"addr":    "localhost:8080",
		"verbose": false,
	}
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range DefaultConfigFiles {
		if fs.File(name).Exists() {
			return name
		}
	}
	return ""
}

// LoadConfig loads the configuration and returns it
// together with the path of the used config file.
//
// Precedence (highest to lowest):
// changed flags > SORTABLE_* env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (cfg *Config, fileUsed string, err error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load defaults: %w", err)
	}

	fileUsed = findConfigFile(cfgFile)
	if fileUsed != "" {
		if err := k.Load(file.Provider(fileUsed), yaml.Parser()); err != nil {
			return nil, "", fmt.Errorf("error reading config file %s: %w", fileUsed, err)
		}
	}

	// SORTABLE_SPEC -> spec
	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		err = k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg = new(Config)
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, "", fmt.Errorf("unable to decode config: %w", err)
	}
	return cfg, fileUsed, nil
}
