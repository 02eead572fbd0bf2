package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("TODOKEEPER_GRPC_ADDR", ":6000")
	t.Setenv("TODOKEEPER_DATABASE_DRIVER", "pgx")
	t.Setenv("TODOKEEPER_DATABASE_DSN", "postgres://u:p@db:5432/todo")
	t.Setenv("TODOKEEPER_ACCESS_TOKEN_EXPIRE", "45m")
	t.Setenv("TODOKEEPER_BCRYPT_COST", "12")
	t.Setenv("TODOKEEPER_MAX_PAGE_SIZE", "50")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, ":6000", cfg.EndpointAddrGRPC)
	assert.Equal(t, "pgx", cfg.DatabaseDriver)
	assert.Equal(t, "postgres://u:p@db:5432/todo", cfg.DatabaseDSN)
	assert.Equal(t, 45*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 50, cfg.MaxPageSize)
	assert.Equal(t, ":8000", cfg.EndpointAddrHTTP, "unset variable keeps the default")
}

func TestParseEnv_Invalid(t *testing.T) {
	t.Setenv("TODOKEEPER_BCRYPT_COST", "many")

	cfg := &Config{}
	err := parseEnv(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}
