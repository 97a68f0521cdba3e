// Package cidutil derives content identifiers used as stable public key
// fingerprints.
package cidutil

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"xdao.co/nkeys/nkeys"
)

// PublicKeyCID returns a CIDv1 using the "raw" multicodec and a sha2-256
// multihash over the 32-byte public key. The role is not part of the
// fingerprint: the same key under two roles has one fingerprint.
func PublicKeyCID(kp nkeys.KeyPair) (cid.Cid, error) {
	if kp == nil {
		return cid.Undef, fmt.Errorf("cidutil: nil key pair")
	}
	return RawPublicKeyCID(kp.RawPublicKey())
}

// RawPublicKeyCID is PublicKeyCID for raw key bytes.
func RawPublicKeyCID(pub []byte) (cid.Cid, error) {
	if len(pub) != nkeys.RawPublicKeySize {
		return cid.Undef, fmt.Errorf("cidutil: public key must be %d bytes, got %d", nkeys.RawPublicKeySize, len(pub))
	}
	sum, err := multihash.Sum(pub, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Fingerprint returns the fingerprint string of an encoded public key.
func Fingerprint(publicKey string) (string, error) {
	kp, err := nkeys.FromPublicKey(publicKey)
	if err != nil {
		return "", err
	}
	id, err := PublicKeyCID(kp)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ParseFingerprint decodes s and checks it has the fingerprint shape.
func ParseFingerprint(s string) (cid.Cid, error) {
	id, err := cid.Decode(s)
	if err != nil {
		return cid.Undef, err
	}
	if id.Version() != 1 || id.Type() != cid.Raw {
		return cid.Undef, fmt.Errorf("cidutil: not a raw CIDv1 fingerprint")
	}
	dec, err := multihash.Decode(id.Hash())
	if err != nil {
		return cid.Undef, err
	}
	if dec.Code != multihash.SHA2_256 {
		return cid.Undef, fmt.Errorf("cidutil: fingerprint hash must be sha2-256")
	}
	return id, nil
}

// Matches reports whether fingerprint s identifies kp.
func Matches(s string, kp nkeys.KeyPair) bool {
	want, err := ParseFingerprint(s)
	if err != nil {
		return false
	}
	got, err := PublicKeyCID(kp)
	if err != nil {
		return false
	}
	return got.Equals(want)
}
