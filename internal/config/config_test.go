package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("RECONCILE_INTERVAL", "")
	t.Setenv("ADMIN_EMAILS", "")

	cfg := Load()
	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.ReconcileInterval)
	assert.Empty(t, cfg.AdminEmails)
	assert.Equal(t, "988", cfg.CrisisHotline)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("RECONCILE_ENABLED", "false")
	t.Setenv("RECONCILE_INTERVAL", "30s")
	t.Setenv("ADMIN_EMAILS", " a@example.com, ,B@example.com ")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.ReconcileEnabled)
	assert.Equal(t, 30*time.Second, cfg.ReconcileInterval)
	assert.Equal(t, []string{"a@example.com", "B@example.com"}, cfg.AdminEmails)
}
