package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	cfg, err := Load(home)
	require.NoError(t, err)
	assert.Equal(t, home, cfg.Home)
	assert.Equal(t, DefaultConfig(home), cfg)
	assert.Equal(t, filepath.Join(home, "data", "journal.db"), cfg.JournalFile())
}

func TestWriteAndLoad(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, EnsureRoot(home))

	cfg := DefaultConfig(home)
	cfg.Chain.WalletUrl = "http://wallet:9000"
	cfg.Chain.ContractIndex = 42
	cfg.Watcher.PollInterval = 5 * time.Second
	cfg.Journal.Enabled = false
	WriteConfigFile(cfg.ConfigFile(), cfg)

	loaded, err := Load(home)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, uint64(42), loaded.ContractAddress().Index)
}

func TestLoadRejectsInvalid(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, EnsureRoot(home))
	dat := []byte("[chain]\ngenesis_hash = \"abcd\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(home, DefaultConfigDir, DefaultConfigName), dat, 0o644))

	_, err := Load(home)
	require.Error(t, err)
}

func TestValidateBasic(t *testing.T) {
	cfg := DefaultConfig("/tmp/dao")
	require.NoError(t, cfg.ValidateBasic())

	cfg.Chain.Account = "not-an-address"
	assert.Error(t, cfg.ValidateBasic())

	cfg = DefaultConfig("/tmp/dao")
	cfg.Watcher.PollInterval = 0
	assert.Error(t, cfg.ValidateBasic())

	cfg = DefaultConfig("/tmp/dao")
	cfg.Chain.SchemaBase64 = "%%%"
	assert.Error(t, cfg.ValidateBasic())
}
