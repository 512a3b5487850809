package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-ops-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "sales",
		Password: `p@ss word'\`,
		Name:     "sales_ops",
		SSLMode:  "disable",
	})
	assert.Equal(t, `host=db.internal port=5432 user=sales password='p@ss word\'\\' dbname=sales_ops sslmode=disable`, dsn)
}

func TestDSNSkipsEmptyValues(t *testing.T) {
	assert.Equal(t, "host=localhost dbname=sales_ops", DSN(config.DatabaseConfig{Host: "localhost", Name: "sales_ops"}))
}

func TestNewPostgresHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	db, err := NewPostgres(ctx, config.DatabaseConfig{Host: "127.0.0.1", Port: 1, Name: "none", SSLMode: "disable", PingTimeout: time.Minute})
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "ping postgres 127.0.0.1:1/none")
	assert.Less(t, time.Since(start), 10*time.Second)
}
