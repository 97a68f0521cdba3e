package nkeys

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind rather than matching error strings.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	KindInvalidSeedLength     Kind = "InvalidSeedLength"
	KindInvalidPrefix         Kind = "InvalidPrefix"
	KindUnknownPrefix         Kind = "UnknownPrefix"
	KindUnknownRoleName       Kind = "UnknownRoleName"
	KindDecoding              Kind = "DecodingError"
	KindInvalidChecksum       Kind = "InvalidChecksum"
	KindInvalidRawBytesLength Kind = "InvalidRawBytesLength"
	KindMissingPrivateKey     Kind = "MissingPrivateKey"
	KindInvalidKeyPair        Kind = "InvalidKeyPair"
	KindInvalidSignatureSize  Kind = "InvalidSignatureSize"
	KindVerificationFailed    Kind = "VerificationFailed"
	KindRandomBytes           Kind = "RandomBytesError"
	KindKeyGeneration         Kind = "KeyGenerationFailure"
)

// Error is the package's structured error type.
//
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return "nkeys: " + e.Message + ": " + e.Cause.Error()
	}
	return "nkeys: " + e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches another *Error by Kind, so errors.Is(err, &Error{Kind: k}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func wrapError(kind Kind, msg string, cause error) error {
	if cause == nil {
		return newError(kind, msg)
	}
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindOf returns the Kind of a structured error, or "" if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}
