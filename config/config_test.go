package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "videosdb", cfg.MongoDB)
	assert.Equal(t, "videos", cfg.VideoCollection)
	assert.Equal(t, "users", cfg.UserCollection)
	assert.Equal(t, "access_token", cfg.JWTCookie)
	assert.Equal(t, "videos", cfg.NATSPrefix)
	assert.Empty(t, cfg.NATSUrl)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.Development())
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "development")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Development())
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "store_driver: memory\njwt_secret: from-file\nmongo_db: filedb\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "filedb", cfg.MongoDB)

	t.Setenv("MONGO_DB", "envdb")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "envdb", cfg.MongoDB)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing mongo uri",
			env:  map[string]string{"JWT_SECRET": "secret"},
			want: "MONGO_URI is not set",
		},
		{
			name: "missing jwt secret",
			env:  map[string]string{"STORE_DRIVER": "memory"},
			want: "JWT_SECRET is not set",
		},
		{
			name: "unknown driver",
			env:  map[string]string{"STORE_DRIVER": "postgres", "JWT_SECRET": "secret"},
			want: `unsupported STORE_DRIVER "postgres"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MONGO_URI", "")
			t.Setenv("JWT_SECRET", "")
			t.Setenv("STORE_DRIVER", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
