package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "API_PORT", "CORS_ALLOWED_ORIGINS", "INVENTORY_API_URL", "INVENTORY_API_TIMEOUT",
		"STORAGE_DRIVER", "GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID",
		"MONGODB_URI", "MONGODB_DB_NAME", "REPORT_CRON_SCHEDULE", "TIMEZONE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "8000", cfg.Server.APIPort)
	assert.Equal(t, []string{"http://localhost", "http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 15*time.Second, cfg.Inventory.Timeout)
	assert.Equal(t, StorageSheets, cfg.Storage.Driver)
	assert.Equal(t, "estoque", cfg.MongoDB.DBName)
	assert.Equal(t, "America/Sao_Paulo", cfg.Reporting.Timezone)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	content := "INVENTORY_API_URL=http://api.local/api/inventory/\nINVENTORY_API_TIMEOUT=0\nSTORAGE_DRIVER=MongoDB\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("INVENTORY_API_URL")
		os.Unsetenv("INVENTORY_API_TIMEOUT")
		os.Unsetenv("STORAGE_DRIVER")
	})
	// godotenv never overrides variables that are already set, even when empty.
	os.Unsetenv("INVENTORY_API_URL")
	os.Unsetenv("INVENTORY_API_TIMEOUT")
	os.Unsetenv("STORAGE_DRIVER")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://api.local/api/inventory", cfg.Inventory.BaseURL)
	assert.Zero(t, cfg.Inventory.Timeout)
	assert.Equal(t, StorageMongoDB, cfg.Storage.Driver)
	assert.NoError(t, cfg.ValidateFrontend())
	assert.NoError(t, cfg.ValidateInventoryAPI())
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("INVENTORY_API_TIMEOUT", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "INVENTORY_API_TIMEOUT")
}

func TestValidateFrontend(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: "3000", APIPort: "8000"}}
	assert.EqualError(t, cfg.ValidateFrontend(), "INVENTORY_API_URL must be provided")

	cfg.Inventory.BaseURL = "http://localhost:8000/api/inventory"
	assert.NoError(t, cfg.ValidateFrontend())
}

func TestValidateInventoryAPI(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "3000", APIPort: "8000"},
			Storage:   StorageConfig{Driver: StorageSheets},
			Sheets:    SheetsConfig{CredentialsPath: "creds.json", SpreadsheetID: "sheet"},
			MongoDB:   MongoDBConfig{URI: "mongodb://localhost:27017", DBName: "estoque"},
			Reporting: ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "UTC"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid sheets", mutate: func(c *Config) {}},
		{name: "valid mongodb", mutate: func(c *Config) { c.Storage.Driver = StorageMongoDB; c.Sheets = SheetsConfig{} }},
		{name: "missing credentials", mutate: func(c *Config) { c.Sheets.CredentialsPath = "" }, wantErr: "GOOGLE_SHEETS_CREDENTIALS_PATH must be provided"},
		{name: "missing spreadsheet", mutate: func(c *Config) { c.Sheets.SpreadsheetID = "" }, wantErr: "GOOGLE_SHEET_DATABASE_ID must be provided"},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "excel" }, wantErr: `unsupported STORAGE_DRIVER "excel"`},
		{name: "missing schedule", mutate: func(c *Config) { c.Reporting.CronSchedule = "" }, wantErr: "REPORT_CRON_SCHEDULE must be provided"},
		{name: "bad timezone", mutate: func(c *Config) { c.Reporting.Timezone = "Mars/Olympus" }, wantErr: "invalid TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.ValidateInventoryAPI()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
