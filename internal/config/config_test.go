package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Store: StoreConfig{
			BasePath: "/some/path",
		},
		OpenLibrary: OpenLibraryConfig{
			BaseURL:        "https://openlibrary.org",
			CoversBaseURL:  "https://covers.openlibrary.org",
			RequestTimeout: 10 * time.Second,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := validTestConfig().Validate()
	assert.NoError(t, err)
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validTestConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"WARN", true}, // level check is case insensitive
		{"verbose", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validTestConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_EmptyStorePath(t *testing.T) {
	cfg := validTestConfig()
	cfg.Store.BasePath = ""

	err := cfg.Validate()
	assert.Error(t, err)
}

func TestValidate_OpenLibrary(t *testing.T) {
	t.Run("missing base URL", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.OpenLibrary.BaseURL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing covers URL", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.OpenLibrary.CoversBaseURL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.OpenLibrary.RequestTimeout = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Run("empty uses default", func(t *testing.T) {
		got, err := expandPath("", "/default/path")
		require.NoError(t, err)
		assert.Equal(t, "/default/path", got)
	})

	t.Run("tilde expands to home", func(t *testing.T) {
		got, err := expandPath("~/shelfmark", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "shelfmark"), got)
	})

	t.Run("absolute path is cleaned", func(t *testing.T) {
		got, err := expandPath("/data//shelfmark/./db", "")
		require.NoError(t, err)
		assert.Equal(t, "/data/shelfmark/db", got)
	})

	t.Run("relative path becomes absolute", func(t *testing.T) {
		got, err := expandPath("data", "")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
	})
}

func TestGetConfigValue(t *testing.T) {
	const envKey = "SHELFMARK_TEST_CONFIG_VALUE"

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(envKey, "from-env")
		assert.Equal(t, "from-flag", getConfigValue("from-flag", envKey, "from-default"))
	})

	t.Run("env beats default", func(t *testing.T) {
		t.Setenv(envKey, "from-env")
		assert.Equal(t, "from-env", getConfigValue("", envKey, "from-default"))
	})

	t.Run("default when unset", func(t *testing.T) {
		assert.Equal(t, "from-default", getConfigValue("", envKey, "from-default"))
	})
}

func TestGetFloatConfigValue(t *testing.T) {
	const envKey = "SHELFMARK_TEST_FLOAT_VALUE"

	t.Run("parses env value", func(t *testing.T) {
		t.Setenv(envKey, "2.5")
		assert.Equal(t, 2.5, getFloatConfigValue("", envKey, 3))
	})

	t.Run("default when unset", func(t *testing.T) {
		assert.Equal(t, 3.0, getFloatConfigValue("", envKey, 3))
	})

	t.Run("default on garbage", func(t *testing.T) {
		t.Setenv(envKey, "not-a-number")
		assert.Equal(t, 3.0, getFloatConfigValue("", envKey, 3))
	})
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	content := "# comment line\nSHELFMARK_TEST_ENVFILE_A=hello\n\nSHELFMARK_TEST_ENVFILE_B=\"quoted\"\nnot-a-pair\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("SHELFMARK_TEST_ENVFILE_A", "")
	t.Setenv("SHELFMARK_TEST_ENVFILE_B", "")
	os.Unsetenv("SHELFMARK_TEST_ENVFILE_A")
	os.Unsetenv("SHELFMARK_TEST_ENVFILE_B")

	require.NoError(t, loadEnvFile(envPath))

	assert.Equal(t, "hello", os.Getenv("SHELFMARK_TEST_ENVFILE_A"))
	assert.Equal(t, "quoted", os.Getenv("SHELFMARK_TEST_ENVFILE_B"))
}

func TestLoadEnvFile_Missing(t *testing.T) {
	err := loadEnvFile(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
