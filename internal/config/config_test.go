package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qri-io/changelog"
)

const testConfig = `
previous_dir: /data/4.1
current_dir: /data/4.2
output_dir: /data/changelog
version: v4.2
workers: 4
store:
  backend: badger
  sync_writes: true
logging:
  level: debug
  format: console
metrics:
  textfile: /var/lib/node_exporter/changelog.prom
tables:
  - name: TextMapEN
    path: TextMap/TextMapEN.json
    language: EN
  - name: AvatarExcelConfigData
    path: ExcelBinOutput/AvatarExcelConfigData.json
    primary_key: id
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(testConfig))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/data/4.1", cfg.PreviousDir)
	assert.Equal(t, "/data/4.2", cfg.CurrentDir)
	assert.Equal(t, "/data/changelog", cfg.OutputDir)
	assert.Equal(t, "v4.2", cfg.Version)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "badger", cfg.Store.Backend)
	assert.True(t, cfg.Store.SyncWrites)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "/var/lib/node_exporter/changelog.prom", cfg.Metrics.Textfile)
	assert.Equal(t, changelog.DefaultHashSuffixes, cfg.HashSuffixes)

	expect := changelog.Schema{
		{Name: "TextMapEN", Path: "TextMap/TextMapEN.json", Language: "EN"},
		{Name: "AvatarExcelConfigData", Path: "ExcelBinOutput/AvatarExcelConfigData.json", PrimaryKey: "id"},
	}
	assert.Equal(t, expect, cfg.Schema())
}

func TestDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
previous_dir: a
current_dir: b
output_dir: c
version: "1.0"
tables:
  - name: T
    path: t.json
    primary_key: id
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Empty(t, cfg.Metrics.Textfile)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvPreviousDir, "/env/prev")
	t.Setenv(EnvCurrentDir, "/env/curr")
	t.Setenv(EnvOutputDir, "/env/out")
	t.Setenv(EnvVersion, "5.0")

	cfg, err := Parse([]byte(testConfig))
	require.NoError(t, err)
	assert.Equal(t, "/env/prev", cfg.PreviousDir)
	assert.Equal(t, "/env/curr", cfg.CurrentDir)
	assert.Equal(t, "/env/out", cfg.OutputDir)
	assert.Equal(t, "5.0", cfg.Version)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		description string
		mutate      func(cfg *Config)
	}{
		{"missing previous dir", func(cfg *Config) { cfg.PreviousDir = "" }},
		{"missing current dir", func(cfg *Config) { cfg.CurrentDir = "" }},
		{"missing output dir", func(cfg *Config) { cfg.OutputDir = "" }},
		{"missing version", func(cfg *Config) { cfg.Version = "" }},
		{"too many workers", func(cfg *Config) { cfg.Workers = 1000 }},
		{"unknown backend", func(cfg *Config) { cfg.Store.Backend = "s3" }},
		{"unknown log level", func(cfg *Config) { cfg.Logging.Level = "trace" }},
		{"unknown log format", func(cfg *Config) { cfg.Logging.Format = "xml" }},
		{"no tables", func(cfg *Config) { cfg.Tables = nil }},
		{"table without path", func(cfg *Config) { cfg.Tables[0].Path = "" }},
		{"empty hash suffix", func(cfg *Config) { cfg.HashSuffixes = []string{""} }},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			cfg, err := Parse([]byte(testConfig))
			require.NoError(t, err)
			c.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateVersion(t *testing.T) {
	cfg, err := Parse([]byte(testConfig))
	require.NoError(t, err)
	cfg.Version = "4.12"

	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, changelog.ErrInvalidVersion))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "changelog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Tables, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("tables: [\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
