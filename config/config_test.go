package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "odv_db", cfg.Database.Name)
	require.Equal(t, "odv-erp-queue", cfg.ServiceBus.ERPQueue)
	require.Equal(t, "odv-servicios", cfg.Elasticsearch.Index)
	require.False(t, cfg.Logging.JSON)
}

func TestLoadHonorsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odv.env")
	content := "DB_NAME=odv_staging\nLOG_JSON=true\nSERVER_READ_TIMEOUT=5s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "odv_staging", cfg.Database.Name)
	require.True(t, cfg.Logging.JSON)
	require.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
}
