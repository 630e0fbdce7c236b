package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"mediavault"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestLoadDefaults(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	require.Equal(t, "http://localhost:5000", cfg.ServerBaseURL)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, "mediavault.db", cfg.DatabasePath)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	withArgs(t, "-a", "https://media.example.com", "-t", "5", "-d", "/tmp/mv.db")

	cfg := LoadConfig()
	require.Equal(t, "https://media.example.com", cfg.ServerBaseURL)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	require.Equal(t, "/tmp/mv.db", cfg.DatabasePath)
}

func TestLoadConfig_JsonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	data := `{"server_base_url":"https://api.example.com","request_timeout":"45s","database_path":"client.db"}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	withArgs(t, "-c", path)

	cfg := LoadConfig()
	require.Equal(t, "https://api.example.com", cfg.ServerBaseURL)
	require.Equal(t, 45*time.Second, cfg.RequestTimeout)
	require.Equal(t, "client.db", cfg.DatabasePath)
}

func TestLoadConfig_FlagsWinOverJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	data := `{"server_base_url":"https://api.example.com"}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	withArgs(t, "-c", path, "-a", "https://override.example.com")

	cfg := LoadConfig()
	require.Equal(t, "https://override.example.com", cfg.ServerBaseURL)
}
