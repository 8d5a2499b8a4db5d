package cli

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, fileUsed, err := LoadConfig("", nil)
	require.NoError(t, err)
	require.Empty(t, fileUsed)
	require.Equal(t, &Config{Format: "html", Addr: "localhost:8080"}, cfg)
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Chdir(t.TempDir())
	err := os.WriteFile("sortable.yaml", []byte("format: csv\ncaption: File\nspec: people.yaml\nsort: \"1:asc\"\n"), 0o600)
	require.NoError(t, err)
	t.Setenv("SORTABLE_CAPTION", "Env")
	t.Setenv("SORTABLE_SORT", "2:desc")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.String("format", "", "")
	flags.String("sort", "", "")
	flags.String("data", "unused-default.json", "")
	flags.Bool("verbose", false, "")
	require.NoError(t, flags.Parse([]string{"--format", "text", "--verbose"}))

	cfg, fileUsed, err := LoadConfig("", flags)
	require.NoError(t, err)
	require.Equal(t, "sortable.yaml", fileUsed)
	require.Equal(t, "text", cfg.Format, "flag beats file")
	require.Equal(t, "Env", cfg.Caption, "env beats file")
	require.Equal(t, "2:desc", cfg.Sort, "env beats unchanged flag")
	require.Equal(t, "people.yaml", cfg.Spec, "file beats default")
	require.Empty(t, cfg.Data, "unchanged flag defaults are ignored")
	require.Equal(t, "localhost:8080", cfg.Addr)
	require.True(t, cfg.Verbose)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("other.yml", []byte("addr: \":9000\"\n"), 0o600))

	cfg, fileUsed, err := LoadConfig("other.yml", nil)
	require.NoError(t, err)
	require.Equal(t, "other.yml", fileUsed)
	require.Equal(t, ":9000", cfg.Addr)

	_, _, err = LoadConfig("missing.yaml", nil)
	require.Error(t, err)
}
