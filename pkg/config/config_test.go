package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "stock-ledger", cfg.App.Name)
	assert.Equal(t, config.DriverMemory, cfg.DB.Driver)
	assert.Equal(t, 5*time.Second, cfg.DB.TxTimeout)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "*", cfg.HTTP.CORSOrigins)
	assert.False(t, cfg.JWT.Enabled(), "sin JWT_SECRET la autenticación queda deshabilitada")
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/ledger.db")
	t.Setenv("DB_TX_TIMEOUT_SECONDS", "2")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("AUTH_USERS", "ana:admin:$2a$10$x")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/ledger.db", cfg.DB.SQLitePath)
	assert.Equal(t, 2*time.Second, cfg.DB.TxTimeout)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.True(t, cfg.JWT.Enabled())
	assert.Equal(t, "ana:admin:$2a$10$x", cfg.JWT.Users)
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_TimeoutInvalido(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("DB_TX_TIMEOUT_SECONDS", "0")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/ledger?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://other"
	assert.Equal(t, "postgres://other", c.ConnectionString())
}
