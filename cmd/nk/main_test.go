package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"xdao.co/nkeys/nkeys"
)

const (
	vectorSeed   = "SAAPN4W3EG6KCJGUQTKTJ5GSB5NHK5CHAJL4DBGFUM3HHROI4XUEP4OBK4"
	vectorPublic = "ACODERUVFFAWZQDSS6SBIACUA5O6SXF7HJ3YTYXBALHZP3P7R4BUO4J2"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestGen(t *testing.T) {
	code, out, errOut := runCLI(t, "", "gen", "--role", "operator")
	if code != 0 {
		t.Fatalf("gen: code %d: %s", code, errOut)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected seed and public key, got %q", out)
	}
	kp, err := nkeys.FromSeed(lines[0])
	if err != nil {
		t.Fatalf("FromSeed: %v", err)
	}
	if kp.Role() != nkeys.RoleOperator || kp.PublicKey() != lines[1] {
		t.Fatalf("unexpected gen output %q", out)
	}

	if code, _, _ := runCLI(t, "", "gen", "--role", "admin"); code != 2 {
		t.Fatalf("expected usage error for bad role, got %d", code)
	}
}

func TestPub_FromStdin(t *testing.T) {
	code, out, errOut := runCLI(t, vectorSeed+"\n", "pub")
	if code != 0 {
		t.Fatalf("pub: code %d: %s", code, errOut)
	}
	if strings.TrimSpace(out) != vectorPublic {
		t.Fatalf("pub: got %q", out)
	}
}

func TestSignVerify(t *testing.T) {
	dir := t.TempDir()
	seedFile := filepath.Join(dir, "user.seed")
	if err := os.WriteFile(seedFile, []byte(vectorSeed+"\n"), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	msgFile := filepath.Join(dir, "msg.txt")
	if err := os.WriteFile(msgFile, []byte("hello"), 0o600); err != nil {
		t.Fatalf("write msg: %v", err)
	}

	code, out, errOut := runCLI(t, "", "sign", "--seed-file", seedFile, "--in", msgFile)
	if code != 0 {
		t.Fatalf("sign: code %d: %s", code, errOut)
	}
	sig := strings.TrimSpace(out)

	code, out, errOut = runCLI(t, "", "verify", "--pub", vectorPublic, "--sig", sig, "--in", msgFile)
	if code != 0 || strings.TrimSpace(out) != "OK" {
		t.Fatalf("verify: code %d out %q err %s", code, out, errOut)
	}

	code, _, _ = runCLI(t, "hello!", "verify", "--pub", vectorPublic, "--sig", sig)
	if code != 1 {
		t.Fatalf("verify of a different message: expected 1, got %d", code)
	}
}

func TestInspect(t *testing.T) {
	code, out, errOut := runCLI(t, "", "inspect", vectorSeed)
	if code != 0 {
		t.Fatalf("inspect: code %d: %s", code, errOut)
	}
	for _, want := range []string{"type: seed", "role: ACCOUNT", "public key: " + vectorPublic, "fingerprint: bafkrei"} {
		if !strings.Contains(out, want) {
			t.Fatalf("inspect output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, vectorSeed) {
		t.Fatalf("inspect echoes the seed")
	}

	if code, _, _ := runCLI(t, "", "inspect", "SXXX"); code != 1 {
		t.Fatalf("expected failure for garbage input, got %d", code)
	}
}

func TestDerive(t *testing.T) {
	rootFile := filepath.Join(t.TempDir(), "root.seed")
	if err := os.WriteFile(rootFile, []byte(vectorSeed), 0o600); err != nil {
		t.Fatalf("write root: %v", err)
	}
	code, first, errOut := runCLI(t, "", "derive", "--root-seed-file", rootFile, "--role", "user", "--label", "alice")
	if code != 0 {
		t.Fatalf("derive: code %d: %s", code, errOut)
	}
	_, second, _ := runCLI(t, "", "derive", "--root-seed-file", rootFile, "--role", "user", "--label", "alice")
	if first != second {
		t.Fatalf("derive is not deterministic")
	}
	if !strings.HasPrefix(first, "SU") {
		t.Fatalf("expected a user seed, got %q", first)
	}
}

func TestFingerprintAndUsage(t *testing.T) {
	code, out, _ := runCLI(t, "", "fingerprint", vectorPublic)
	if code != 0 || !strings.HasPrefix(out, "bafkrei") {
		t.Fatalf("fingerprint: code %d out %q", code, out)
	}
	if code, _, _ := runCLI(t, ""); code != 2 {
		t.Fatalf("expected usage exit code, got %d", code)
	}
	if code, _, _ := runCLI(t, "", "frobnicate"); code != 2 {
		t.Fatalf("expected usage exit code for unknown command, got %d", code)
	}
	if code, _, _ := runCLI(t, "", "help"); code != 0 {
		t.Fatalf("help: got %d", code)
	}
}
