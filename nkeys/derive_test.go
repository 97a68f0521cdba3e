package nkeys

import (
	"bytes"
	"testing"
)

func TestDeriveRoleSeedDeterministic(t *testing.T) {
	root := make([]byte, RawSeedSize)
	for i := range root {
		root[i] = byte(i)
	}

	a, err := DeriveRoleSeed(root, RoleAccount, "")
	if err != nil {
		t.Fatalf("DeriveRoleSeed: %v", err)
	}
	b, err := DeriveRoleSeed(root, RoleAccount, "")
	if err != nil {
		t.Fatalf("DeriveRoleSeed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("expected deterministic derivation")
	}

	c, err := DeriveRoleSeed(root, RoleUser, "")
	if err != nil {
		t.Fatalf("DeriveRoleSeed: %v", err)
	}
	if bytes.Equal(a, c) {
		t.Fatalf("expected different roles to derive different seeds")
	}

	d, err := DeriveRoleSeed(root, RoleAccount, "billing")
	if err != nil {
		t.Fatalf("DeriveRoleSeed: %v", err)
	}
	if bytes.Equal(a, d) {
		t.Fatalf("expected different labels to derive different seeds")
	}
}

func TestFromDerivedSeed(t *testing.T) {
	root := bytes.Repeat([]byte{0x42}, RawSeedSize)
	kp, err := FromDerivedSeed(root, RoleUser, "alice")
	if err != nil {
		t.Fatalf("FromDerivedSeed: %v", err)
	}
	if kp.Role() != RoleUser || !kp.HasPrivateKey() {
		t.Fatalf("unexpected derived pair: %v", kp)
	}
	seed, err := DeriveRoleSeed(root, RoleUser, "alice")
	if err != nil {
		t.Fatalf("DeriveRoleSeed: %v", err)
	}
	want, err := FromRawSeed(RoleUser, seed)
	if err != nil {
		t.Fatalf("FromRawSeed: %v", err)
	}
	if kp.PublicKey() != want.PublicKey() {
		t.Fatalf("derived pair mismatch")
	}
}

func TestDeriveRoleSeed_Errors(t *testing.T) {
	if _, err := DeriveRoleSeed(make([]byte, 16), RoleUser, ""); !IsKind(err, KindInvalidRawBytesLength) {
		t.Fatalf("expected %s, got %v", KindInvalidRawBytesLength, err)
	}
	if _, err := DeriveRoleSeed(make([]byte, RawSeedSize), Role(99), ""); err == nil {
		t.Fatalf("expected error for undefined role")
	}
}
