package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"xdao.co/nkeys/internal/config"
	"xdao.co/nkeys/nkeys"
)

func TestSetupLogger_FileOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "logs", "nkeysd.log")
	logger, err := SetupLogger(config.LogConfig{Level: "debug", Format: "json", Outputs: []string{out}})
	if err != nil {
		t.Fatalf("SetupLogger: %v", err)
	}
	kp, err := nkeys.CreatePair(nkeys.RoleServer)
	if err != nil {
		t.Fatalf("CreatePair: %v", err)
	}
	logger.Info("loaded", KeyPairFields(kp)...)
	_ = logger.Sync()

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(b)
	if !strings.Contains(line, kp.PublicKey()) || !strings.Contains(line, `"role":"SERVER"`) {
		t.Fatalf("unexpected log line: %s", line)
	}
	seed, err := kp.Seed()
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if strings.Contains(line, seed) {
		t.Fatalf("log leaks seed")
	}
}

func TestKeyPairFields_Nil(t *testing.T) {
	if f := KeyPairFields(nil); f != nil {
		t.Fatalf("expected nil fields")
	}
}
