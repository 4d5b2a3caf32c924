package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("VAT_RATE", "")
	t.Setenv("ANAF_CACHE_TTL", "")

	cfg := Load()
	assert.Equal(t, 8082, cfg.Port)
	assert.Equal(t, "127.0.0.1:8082", cfg.Addr())
	assert.Equal(t, "0.21", cfg.VATRate.String())
	assert.Equal(t, 24*time.Hour, cfg.AnafCacheTTL)
	assert.Equal(t, int64(20*1024*1024), cfg.MaxUploadBytes())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("VAT_RATE", "0.19")
	t.Setenv("ANAF_CACHE_TTL", "90m")
	t.Setenv("ANAF_TIMEOUT", "garbage")
	t.Setenv("ALLOW_ORIGINS", "https://a.ro, https://b.ro")

	cfg := Load()
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "0.19", cfg.VATRate.String())
	assert.Equal(t, 90*time.Minute, cfg.AnafCacheTTL)
	assert.Equal(t, 10*time.Second, cfg.AnafTimeout)
	assert.Equal(t, []string{"https://a.ro", "https://b.ro"}, cfg.AllowOrigins)
}
