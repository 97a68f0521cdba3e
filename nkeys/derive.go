package nkeys

import (
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

const deriveInfo = "xdao-nkeys-role-v1"

// DeriveRoleSeed deterministically derives a role-specific seed from a
// 32-byte root seed with HKDF-SHA3-256. Different labels give independent
// seeds for the same role.
func DeriveRoleSeed(rootSeed []byte, role Role, label string) ([]byte, error) {
	if len(rootSeed) != RawSeedSize {
		return nil, newError(KindInvalidRawBytesLength, fmt.Sprintf("root seed must be %d bytes, got %d", RawSeedSize, len(rootSeed)))
	}
	if err := checkRole(role); err != nil {
		return nil, err
	}

	info := make([]byte, 0, len(deriveInfo)+len(label)+16)
	info = append(info, deriveInfo...)
	info = append(info, 0)
	info = append(info, "role:"...)
	info = append(info, role.String()...)
	info = append(info, 0)
	info = append(info, label...)

	out := make([]byte, RawSeedSize)
	if _, err := io.ReadFull(hkdf.New(sha3.New256, rootSeed, nil, info), out); err != nil {
		return nil, wrapError(KindKeyGeneration, "seed derivation failed", err)
	}
	return out, nil
}

// FromDerivedSeed creates the key pair for role derived from rootSeed.
func FromDerivedSeed(rootSeed []byte, role Role, label string) (KeyPair, error) {
	seed, err := DeriveRoleSeed(rootSeed, role, label)
	if err != nil {
		return nil, err
	}
	defer wipe(seed)
	return newFullPair(role, seed)
}
