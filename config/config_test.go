package config_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/thresholdvote/core/config"
)

func TestFromEnvDefaults(t *testing.T) {
	c := qt.New(t)

	cfg, err := config.FromEnv()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.HTTPPort, qt.Equals, 8080)
	c.Assert(cfg.AllowedOrigins, qt.DeepEquals, []string{"*"})
	c.Assert(cfg.Debug, qt.IsFalse)
}

func TestFromEnvOverrides(t *testing.T) {
	c := qt.New(t)

	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DEBUG", "true")

	cfg, err := config.FromEnv()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.HTTPPort, qt.Equals, 9090)
	c.Assert(cfg.AllowedOrigins, qt.DeepEquals, []string{"https://a.example", "https://b.example"})
	c.Assert(cfg.Debug, qt.IsTrue)
}

func TestFromEnvRejectsInvalidPort(t *testing.T) {
	c := qt.New(t)

	t.Setenv("HTTP_PORT", "not-a-number")
	_, err := config.FromEnv()
	c.Assert(err, qt.ErrorMatches, "HTTP_PORT:.*")
}
