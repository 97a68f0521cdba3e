package main

import (
	"os"
	"path/filepath"
	"testing"

	"xdao.co/nkeys/internal/config"
	"xdao.co/nkeys/nkeys"
)

func writeSeed(t *testing.T, role nkeys.Role) (string, nkeys.KeyPair) {
	t.Helper()
	kp, err := nkeys.CreatePair(role)
	if err != nil {
		t.Fatalf("CreatePair: %v", err)
	}
	seed, err := kp.Seed()
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	p := filepath.Join(t.TempDir(), "key.seed")
	if err := os.WriteFile(p, []byte(seed+"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p, kp
}

func TestLoadKeyPair(t *testing.T) {
	p, want := writeSeed(t, nkeys.RoleServer)
	cfg := config.Default()
	cfg.SeedFile = p

	kp, err := loadKeyPair(cfg)
	if err != nil {
		t.Fatalf("loadKeyPair: %v", err)
	}
	if kp.PublicKey() != want.PublicKey() {
		t.Fatalf("public key mismatch")
	}

	cfg.ExpectRole = "user"
	if _, err := loadKeyPair(cfg); err == nil {
		t.Fatalf("expected role mismatch error")
	}
}

func TestLoadKeyPair_BadSeed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.seed")
	if err := os.WriteFile(p, []byte("not a seed"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := config.Default()
	cfg.SeedFile = p
	_, err := loadKeyPair(cfg)
	if !nkeys.IsKind(err, nkeys.KindInvalidSeedLength) {
		t.Fatalf("expected %s, got %v", nkeys.KindInvalidSeedLength, err)
	}
}
