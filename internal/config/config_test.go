package config

import (
	"os"
	"path/filepath"
	"testing"

	"xdao.co/nkeys/nkeys"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoad_YAML(t *testing.T) {
	p := writeFile(t, "nkeysd.yaml", `
listen: "127.0.0.1:9000"
seed_file: "/etc/nkeys/user.seed"
expect_role: user
log:
  level: debug
  format: json
  outputs: [stdout]
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != "127.0.0.1:9000" || cfg.SeedFile != "/etc/nkeys/user.seed" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Role() != nkeys.RoleUser {
		t.Fatalf("expected user role, got %s", cfg.Role())
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.MaxMsgBytes != Default().MaxMsgBytes {
		t.Fatalf("expected default max_msg_bytes, got %d", cfg.MaxMsgBytes)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("NKEYS_SEED_FILE", "/tmp/env.seed")
	t.Setenv("NKEYS_LISTEN", "127.0.0.1:9100")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SeedFile != "/tmp/env.seed" || cfg.Listen != "127.0.0.1:9100" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.SeedFile = "" },
		func(c *Config) { c.Listen = "nope" },
		func(c *Config) { c.ExpectRole = "admin" },
		func(c *Config) { c.MaxMsgBytes = -1 },
		func(c *Config) { c.Log.Format = "xml" },
	}
	for i, mutate := range cases {
		c := Default()
		c.SeedFile = "/tmp/x.seed"
		mutate(c)
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	c := Default()
	c.SeedFile = "/tmp/x.seed"
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
