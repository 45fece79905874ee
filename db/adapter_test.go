package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warchest-gg/server/config"
)

func TestOpen_SQLiteMemory(t *testing.T) {
	gdb, err := Open(config.DatabaseConfig{
		Mode:       ModeSQLite,
		SQLitePath: "file::memory:?cache=shared",
	}, false)
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
}

func TestOpen_UnknownMode(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Mode: "oracle"}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
