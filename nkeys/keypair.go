package nkeys

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/ed25519"
)

// KeyPair is an Ed25519 key tagged with its role.
//
// A KeyPair is either full (built from a seed, can sign) or public-only
// (built from an encoded public key, can only verify). Values are immutable
// and safe for concurrent use.
type KeyPair interface {
	// Role returns the role the key represents.
	Role() Role
	// PublicKey returns the encoded public key.
	PublicKey() string
	// RawPublicKey returns a copy of the 32-byte public key.
	RawPublicKey() []byte
	// HasPrivateKey reports whether the pair can sign.
	HasPrivateKey() bool
	// Seed returns the encoded seed. It fails with KindInvalidKeyPair on a
	// public-only pair.
	Seed() (string, error)
	// PrivateKey returns the encoded 64-byte private key. It fails with
	// KindInvalidKeyPair on a public-only pair.
	PrivateKey() (string, error)
	// Sign signs message as given, without hashing or framing.
	Sign(message []byte) ([]byte, error)
	// Verify checks a 64-byte signature over message.
	Verify(message, signature []byte) error
}

// CreatePair creates a key pair for role from crypto/rand.
func CreatePair(role Role) (KeyPair, error) {
	return CreatePairWithRand(role, rand.Reader)
}

// CreatePairWithRand creates a key pair for role from 32 bytes of r.
// A nil r means crypto/rand.
func CreatePairWithRand(role Role, r io.Reader) (KeyPair, error) {
	if err := checkRole(role); err != nil {
		return nil, err
	}
	if r == nil {
		r = rand.Reader
	}
	var raw [RawSeedSize]byte
	defer wipe(raw[:])
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return nil, wrapError(KindRandomBytes, "failed to generate random bytes", err)
	}
	return newFullPair(role, raw[:])
}

// FromRawSeed creates a key pair for role from a 32-byte seed. The seed is
// copied; the caller keeps ownership of raw.
func FromRawSeed(role Role, raw []byte) (KeyPair, error) {
	if err := checkRole(role); err != nil {
		return nil, err
	}
	if len(raw) != RawSeedSize {
		return nil, newError(KindInvalidRawBytesLength, fmt.Sprintf("raw seed must be %d bytes, got %d", RawSeedSize, len(raw)))
	}
	return newFullPair(role, raw)
}

// FromSeed creates a key pair from an encoded seed. The role comes from the
// seed itself.
func FromSeed(seed string) (KeyPair, error) {
	role, raw, err := DecodeSeed(seed)
	if err != nil {
		return nil, err
	}
	defer wipe(raw)
	return newFullPair(role, raw)
}

// FromPublicKey creates a verify-only key pair from an encoded public key.
func FromPublicKey(public string) (KeyPair, error) {
	role, raw, err := DecodePublicKey(public)
	if err != nil {
		return nil, err
	}
	return &publicPair{role: role, pub: ed25519.PublicKey(raw)}, nil
}

func newFullPair(role Role, seed []byte) (*fullPair, error) {
	priv := ed25519.NewKeyFromSeed(seed)
	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok || len(pub) != RawPublicKeySize {
		wipe(priv)
		return nil, newError(KindKeyGeneration, "ed25519 key derivation returned no public key")
	}
	return &fullPair{publicPair: publicPair{role: role, pub: pub}, priv: priv}, nil
}

func verify(pub ed25519.PublicKey, message, signature []byte) error {
	if len(signature) != SignatureSize {
		return newError(KindInvalidSignatureSize, fmt.Sprintf("signature size should be %d but is %d", SignatureSize, len(signature)))
	}
	if !ed25519.Verify(pub, message, signature) {
		return newError(KindVerificationFailed, "signature is not valid for given input")
	}
	return nil
}

type publicPair struct {
	role Role
	pub  ed25519.PublicKey
}

func (p *publicPair) Role() Role { return p.role }

func (p *publicPair) PublicKey() string {
	// role and pub were validated at construction.
	s, _ := EncodePublicKey(p.role, p.pub)
	return s
}

func (p *publicPair) RawPublicKey() []byte {
	return append([]byte(nil), p.pub...)
}

func (p *publicPair) HasPrivateKey() bool { return false }

func (p *publicPair) Seed() (string, error) {
	return "", newError(KindInvalidKeyPair, "can't return seed from a public key only key pair")
}

func (p *publicPair) PrivateKey() (string, error) {
	return "", newError(KindInvalidKeyPair, "can't return private key from a public key only key pair")
}

func (p *publicPair) Sign([]byte) ([]byte, error) {
	return nil, newError(KindMissingPrivateKey, "can't sign with a public key only key pair")
}

func (p *publicPair) Verify(message, signature []byte) error {
	return verify(p.pub, message, signature)
}

func (p *publicPair) String() string {
	return fmt.Sprintf("nkeys.KeyPair{role: %s, public: %s}", p.role, p.PublicKey())
}

func (p *publicPair) GoString() string { return p.String() }

type fullPair struct {
	publicPair
	priv ed25519.PrivateKey
}

func (kp *fullPair) HasPrivateKey() bool { return true }

func (kp *fullPair) Seed() (string, error) {
	seed := kp.priv.Seed()
	defer wipe(seed)
	return EncodeSeed(kp.role, seed)
}

func (kp *fullPair) PrivateKey() (string, error) {
	return EncodePrivateKey(kp.priv)
}

func (kp *fullPair) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(kp.priv, message), nil
}

// String never includes private material.
func (kp *fullPair) String() string {
	return fmt.Sprintf("nkeys.KeyPair{role: %s, public: %s, private: <redacted>}", kp.role, kp.PublicKey())
}

func (kp *fullPair) GoString() string { return kp.String() }

// Format keeps every fmt verb, including %x and %d, on the redacted form.
func (kp *fullPair) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, kp.String())
}
