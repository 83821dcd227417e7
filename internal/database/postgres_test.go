package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_DSN(t *testing.T) {
	cfg := Config{
		Host:     "db.local",
		Port:     5433,
		User:     "report",
		Password: "secret",
		DBName:   "employees",
	}
	assert.Equal(t, "host=db.local port=5433 user=report password=secret dbname=employees sslmode=disable", cfg.DSN())

	cfg.SSLMode = "require"
	assert.Contains(t, cfg.DSN(), "sslmode=require")
}
