package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"FINPARSER_LOG_LEVEL",
	"FINPARSER_LOG_FORMAT",
	"FINPARSER_CSV_DELIMITER",
	"FINPARSER_CSV_BANK_EXPORT_SKIP_ROWS",
	"FINPARSER_CSV_BANK_EXPORT_ENCODING",
	"FINPARSER_CSV_BANK_EXPORT_CURRENCY",
	"FINPARSER_CSV_BANK_EXPORT_LAYOUT_FILE",
	"FINPARSER_CAMT_NAMESPACE",
	"FINPARSER_CAMT_STRICT_STATEMENT_ID",
	"FINPARSER_MT940_DEFAULT_TYPE_CODE",
}

func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		if value, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { _ = os.Setenv(key, value) })
		}
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Setenv("HOME", dir)
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(originalDir))
	})
}

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, 11, config.CSV.BankExport.SkipRows)
	assert.Equal(t, EncodingUTF8, config.CSV.BankExport.Encoding)
	assert.Equal(t, "XXX", config.CSV.BankExport.Currency)
	assert.Empty(t, config.CSV.BankExport.LayoutFile)
	assert.Equal(t, DefaultCamtNamespace, config.Camt.Namespace)
	assert.False(t, config.Camt.StrictStatementID)
	assert.Equal(t, "NTRF", config.MT940.DefaultTypeCode)
	assert.Equal(t, ',', config.DelimiterRune())
}

func TestDefault(t *testing.T) {
	config := Default()
	assert.Equal(t, 11, config.CSV.BankExport.SkipRows)
	assert.Equal(t, "NTRF", config.MT940.DefaultTypeCode)
	assert.NoError(t, validateConfig(config))
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	t.Setenv("FINPARSER_LOG_LEVEL", "debug")
	t.Setenv("FINPARSER_LOG_FORMAT", "json")
	t.Setenv("FINPARSER_CSV_DELIMITER", ";")
	t.Setenv("FINPARSER_CSV_BANK_EXPORT_ENCODING", "CP1251")
	t.Setenv("FINPARSER_CSV_BANK_EXPORT_CURRENCY", "rub")
	t.Setenv("FINPARSER_CAMT_STRICT_STATEMENT_ID", "true")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ';', config.DelimiterRune())
	assert.Equal(t, EncodingWindows1251, config.CSV.BankExport.Encoding)
	assert.Equal(t, "RUB", config.CSV.BankExport.Currency)
	assert.True(t, config.Camt.StrictStatementID)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := t.TempDir()
	chdir(t, tempDir)

	content := `
log:
  level: "warn"
csv:
  delimiter: "|"
  bank_export:
    skip_rows: 5
    layout_file: "layout.yaml"
mt940:
  default_type_code: "NMSC"
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(content), 0600))

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, 5, config.CSV.BankExport.SkipRows)
	assert.Equal(t, "layout.yaml", config.CSV.BankExport.LayoutFile)
	assert.Equal(t, "NMSC", config.MT940.DefaultTypeCode)
}

func TestInitializeConfigFromFile(t *testing.T) {
	clearTestEnvVars(t)

	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("camt:\n  strict_statement_id: true\n"), 0600))

		config, err := InitializeConfigFromFile(path)
		require.NoError(t, err)
		assert.True(t, config.Camt.StrictStatementID)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := InitializeConfigFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0600))
		t.Setenv("FINPARSER_LOG_LEVEL", "error")

		config, err := InitializeConfigFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "error", config.Log.Level)
	})
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		expectError string
	}{
		{
			name:   "valid defaults",
			modify: func(c *Config) {},
		},
		{
			name:        "invalid log level",
			modify:      func(c *Config) { c.Log.Level = "loud" },
			expectError: "invalid log level",
		},
		{
			name:        "invalid log format",
			modify:      func(c *Config) { c.Log.Format = "xml" },
			expectError: "invalid log format",
		},
		{
			name:        "multi-character delimiter",
			modify:      func(c *Config) { c.CSV.Delimiter = ";;" },
			expectError: "single character",
		},
		{
			name:        "negative skip rows",
			modify:      func(c *Config) { c.CSV.BankExport.SkipRows = -1 },
			expectError: "skip_rows",
		},
		{
			name:        "unknown encoding",
			modify:      func(c *Config) { c.CSV.BankExport.Encoding = "koi8-r" },
			expectError: "encoding",
		},
		{
			name:        "bad currency",
			modify:      func(c *Config) { c.CSV.BankExport.Currency = "EURO" },
			expectError: "3-letter",
		},
		{
			name:        "empty namespace",
			modify:      func(c *Config) { c.Camt.Namespace = "" },
			expectError: "camt.namespace",
		},
		{
			name:        "type code with digits",
			modify:      func(c *Config) { c.MT940.DefaultTypeCode = "N1" },
			expectError: "four letters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.modify(config)

			err := validateConfig(config)
			if tt.expectError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	config := Default()
	config.Log.Format = "json"
	assert.NotNil(t, ConfigureLoggingFromConfig(config))
}

func TestLoadEnvFrom(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FINPARSER_TEST_VALUE=from-dotenv\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("FINPARSER_TEST_VALUE") })

	loaded := loadEnvFrom(filepath.Join(dir, "missing.env"), envFile)

	assert.Equal(t, envFile, loaded)
	assert.Equal(t, "from-dotenv", GetEnv("FINPARSER_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("FINPARSER_TEST_UNSET", "fallback"))
	assert.Empty(t, loadEnvFrom(filepath.Join(dir, "missing.env")))
}
