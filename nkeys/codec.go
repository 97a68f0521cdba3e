package nkeys

import (
	"fmt"

	"github.com/multiformats/go-base32"
)

const (
	// EncodedSeedLength is the length of every encoded seed.
	EncodedSeedLength = 58

	RawSeedSize       = 32
	RawPublicKeySize  = 32
	RawPrivateKeySize = 64
	SignatureSize     = 64

	base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"
)

// b32 is RFC 4648 base32 without padding. Decoding is case-sensitive.
var b32 = base32.NewEncoding(base32Alphabet).WithPadding(base32.NoPadding)

// decodeRaw accepts only the canonical encoding: the decoder skips CR and
// LF and ignores trailing bits, so the result must re-encode to text.
func decodeRaw(text string) ([]byte, error) {
	raw, err := b32.DecodeString(text)
	if err != nil {
		return nil, wrapError(KindDecoding, "invalid base32", err)
	}
	if b32.EncodeToString(raw) != text {
		wipe(raw)
		return nil, newError(KindDecoding, "non-canonical base32")
	}
	return splitChecksum(raw)
}

func encodeRaw(buf []byte) string {
	return b32.EncodeToString(appendChecksum(buf))
}

// EncodePublicKey encodes a raw Ed25519 public key for role.
func EncodePublicKey(role Role, pub []byte) (string, error) {
	if err := checkRole(role); err != nil {
		return "", err
	}
	if len(pub) != RawPublicKeySize {
		return "", newError(KindInvalidRawBytesLength, fmt.Sprintf("public key must be %d bytes, got %d", RawPublicKeySize, len(pub)))
	}
	buf := make([]byte, 0, 1+RawPublicKeySize+2)
	buf = append(buf, role.PrefixByte())
	buf = append(buf, pub...)
	return encodeRaw(buf), nil
}

// DecodePublicKey returns the role and raw public key carried by text.
func DecodePublicKey(text string) (Role, []byte, error) {
	body, err := decodeRaw(text)
	if err != nil {
		return 0, nil, err
	}
	if len(body) == 0 {
		return 0, nil, newError(KindInvalidRawBytesLength, "empty public key")
	}
	role, err := RoleFromPrefixByte(body[0])
	if err != nil {
		return 0, nil, wrapError(KindInvalidPrefix, fmt.Sprintf("not a valid public key prefix %d", body[0]), err)
	}
	pub := body[1:]
	if len(pub) != RawPublicKeySize {
		return 0, nil, newError(KindInvalidRawBytesLength, fmt.Sprintf("public key must be %d bytes, got %d", RawPublicKeySize, len(pub)))
	}
	return role, pub, nil
}

// EncodeSeed encodes a raw Ed25519 seed for role.
//
// The first two bytes pack the seed marker into the top 5 bits and the
// role prefix into the following 8 bits.
func EncodeSeed(role Role, seed []byte) (string, error) {
	if err := checkRole(role); err != nil {
		return "", err
	}
	if len(seed) != RawSeedSize {
		return "", newError(KindInvalidRawBytesLength, fmt.Sprintf("seed must be %d bytes, got %d", RawSeedSize, len(seed)))
	}
	prefix := role.PrefixByte()
	buf := make([]byte, 0, 2+RawSeedSize+2)
	buf = append(buf, PrefixByteSeed|prefix>>5, (prefix&0x1f)<<3)
	buf = append(buf, seed...)
	out := encodeRaw(buf)
	wipe(buf[:cap(buf)])
	if len(out) != EncodedSeedLength {
		return "", newError(KindInvalidSeedLength, fmt.Sprintf("internal: encoded seed has %d characters", len(out)))
	}
	return out, nil
}

// DecodeSeed returns the role and raw seed carried by text. The caller owns
// the returned slice and should wipe it when done.
func DecodeSeed(text string) (Role, []byte, error) {
	if len(text) != EncodedSeedLength {
		return 0, nil, newError(KindInvalidSeedLength, fmt.Sprintf("bad seed length: %d", len(text)))
	}
	body, err := decodeRaw(text)
	if err != nil {
		return 0, nil, err
	}
	if len(body) < 2 {
		return 0, nil, newError(KindInvalidRawBytesLength, "seed payload too short")
	}
	if body[0]&0xf8 != PrefixByteSeed {
		wipe(body)
		return 0, nil, newError(KindInvalidPrefix, fmt.Sprintf("incorrect seed prefix byte %d", body[0]))
	}
	role, err := RoleFromPrefixByte((body[0]&0x07)<<5 | (body[1]&0xf8)>>3)
	if err != nil {
		wipe(body)
		return 0, nil, err
	}
	seed := body[2:]
	if len(seed) != RawSeedSize {
		wipe(body)
		return 0, nil, newError(KindInvalidRawBytesLength, fmt.Sprintf("seed must be %d bytes, got %d", RawSeedSize, len(seed)))
	}
	return role, seed, nil
}

// EncodePrivateKey encodes a 64-byte Ed25519 private key. Private keys carry
// no role.
func EncodePrivateKey(priv []byte) (string, error) {
	if len(priv) != RawPrivateKeySize {
		return "", newError(KindInvalidRawBytesLength, fmt.Sprintf("private key must be %d bytes, got %d", RawPrivateKeySize, len(priv)))
	}
	buf := make([]byte, 0, 1+RawPrivateKeySize+2)
	buf = append(buf, PrefixBytePrivate)
	buf = append(buf, priv...)
	out := encodeRaw(buf)
	wipe(buf[:cap(buf)])
	return out, nil
}

// DecodePrivateKey returns the raw 64-byte private key carried by text.
func DecodePrivateKey(text string) ([]byte, error) {
	body, err := decodeRaw(text)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 || body[0] != PrefixBytePrivate {
		wipe(body)
		return nil, newError(KindInvalidPrefix, "not an encoded private key")
	}
	priv := body[1:]
	if len(priv) != RawPrivateKeySize {
		wipe(body)
		return nil, newError(KindInvalidRawBytesLength, fmt.Sprintf("private key must be %d bytes, got %d", RawPrivateKeySize, len(priv)))
	}
	return priv, nil
}

// IsValidPublicKey reports whether text is a well-formed encoded public key
// of any role.
func IsValidPublicKey(text string) bool {
	_, _, err := DecodePublicKey(text)
	return err == nil
}

// IsValidPublicKeyOf reports whether text is a well-formed encoded public key
// of the given role.
func IsValidPublicKeyOf(role Role, text string) bool {
	got, _, err := DecodePublicKey(text)
	return err == nil && got == role
}

func wipe(b []byte) {
	clear(b)
}
