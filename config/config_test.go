package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "uploads", cfg.Paths.Uploads)
	assert.Equal(t, "filtered", cfg.Paths.Reports)
	assert.Equal(t, 10, cfg.Analysis.TopK)
	assert.Equal(t, 100, cfg.Analysis.SampleSize)
	assert.False(t, cfg.Analysis.ISODates)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.CellDB.Path)
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cdr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
analysis:
  top_k: 5
  iso_dates: true
cache:
  ttl: 30s
celldb:
  path: /var/lib/cdr/cells.db
`), 0o600))
	t.Setenv("CDR_ANALYSIS_TOP_K", "7")
	t.Setenv("CDR_LOG_LEVEL", "debug")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("addr", "", "")
	require.NoError(t, fs.Parse([]string{"--addr", ":7000"}))

	cfg, err := Load(path, map[string]*pflag.Flag{"server.addr": fs.Lookup("addr")})
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, 7, cfg.Analysis.TopK)
	assert.True(t, cfg.Analysis.ISODates)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/var/lib/cdr/cells.db", cfg.CellDB.Path)
}

func TestLoadUnchangedFlagKeepsLowerLayers(t *testing.T) {
	t.Setenv("CDR_SERVER_ADDR", ":6000")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("addr", ":8080", "")

	cfg, err := Load("", map[string]*pflag.Flag{"server.addr": fs.Lookup("addr")})
	require.NoError(t, err)
	assert.Equal(t, ":6000", cfg.Server.Addr)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("CDR_ANALYSIS_TOP_K", "0")
	_, err := Load("", nil)
	assert.ErrorContains(t, err, "analysis.top_k")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}
