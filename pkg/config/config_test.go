package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "inventario-ledger", cfg.App.Name)
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout)
	assert.Equal(t, "utf-8", cfg.Inventory.CSVEncoding)
	assert.Equal(t, 50, cfg.Inventory.HistoryLimit)
	assert.Equal(t, "postgres://postgres@localhost:5432/inventory?sslmode=disable", cfg.DB.ConnectionString())
}

func TestLoad_InventoryDBTienePrioridad(t *testing.T) {
	t.Setenv("INVENTORY_DB", "postgres://ledger@db:5432/stock")
	t.Setenv("DATABASE_URL", "postgres://otro@db:5432/otro")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://ledger@db:5432/stock", cfg.DB.ConnectionString())
}

func TestLoad_DatabaseURLSinInventoryDB(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://otro@db:5432/otro")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://otro@db:5432/otro", cfg.DB.ConnectionString())
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_LOCK_TIMEOUT", "250ms")
	t.Setenv("HISTORY_LIMIT", "10")
	t.Setenv("CSV_ENCODING", "shift_jis")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.DB.LockTimeout)
	assert.Equal(t, 10, cfg.Inventory.HistoryLimit)
	assert.Equal(t, "shift_jis", cfg.Inventory.CSVEncoding)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestLoad_LockTimeoutEnMilisegundos(t *testing.T) {
	t.Setenv("DB_LOCK_TIMEOUT", "1500")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.DB.LockTimeout)
}

func TestLoad_LockTimeoutInvalido(t *testing.T) {
	t.Setenv("DB_LOCK_TIMEOUT", "pronto")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_LOCK_TIMEOUT")
}

func TestDSN_EscapaContrasena(t *testing.T) {
	c := config.DBConfig{Host: "h", Port: 5432, User: "u", Password: "p@ss/word", DBName: "inv", SSLMode: "require"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@h:5432/inv?sslmode=require", c.DSN())
}

func TestLocation_OcultaContrasena(t *testing.T) {
	c := config.DBConfig{InventoryDB: "postgres://u:secreta@h:5432/inv"}
	assert.Equal(t, "postgres://u:xxxxx@h:5432/inv", c.Location())

	c = config.DBConfig{InventoryDB: "host=h user=u password=secreta"}
	assert.NotContains(t, c.Location(), "secreta")
}
