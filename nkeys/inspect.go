package nkeys

import "fmt"

// ArtifactType identifies what an encoded string holds.
type ArtifactType int

const (
	ArtifactPublicKey ArtifactType = iota + 1
	ArtifactSeed
	ArtifactPrivateKey
)

func (t ArtifactType) String() string {
	switch t {
	case ArtifactPublicKey:
		return "public-key"
	case ArtifactSeed:
		return "seed"
	case ArtifactPrivateKey:
		return "private-key"
	default:
		return fmt.Sprintf("ArtifactType(%d)", int(t))
	}
}

// Info describes an encoded artifact without exposing secret material.
type Info struct {
	Type ArtifactType
	// Role is zero for private keys, which carry no role.
	Role Role
	// PublicKey is the encoded public key; empty for private keys.
	PublicKey string
}

// Inspect classifies and validates any encoded artifact.
func Inspect(text string) (Info, error) {
	if text == "" {
		return Info{}, newError(KindDecoding, "empty input")
	}
	switch text[0] {
	case base32Alphabet[PrefixByteSeed>>3]:
		kp, err := FromSeed(text)
		if err != nil {
			return Info{}, err
		}
		return Info{Type: ArtifactSeed, Role: kp.Role(), PublicKey: kp.PublicKey()}, nil
	case base32Alphabet[PrefixBytePrivate>>3]:
		priv, err := DecodePrivateKey(text)
		if err != nil {
			return Info{}, err
		}
		wipe(priv)
		return Info{Type: ArtifactPrivateKey}, nil
	default:
		kp, err := FromPublicKey(text)
		if err != nil {
			return Info{}, err
		}
		return Info{Type: ArtifactPublicKey, Role: kp.Role(), PublicKey: kp.PublicKey()}, nil
	}
}
