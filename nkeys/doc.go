// Package nkeys encodes Ed25519 key material together with the identity role
// the key represents (server, cluster, operator, account, user, module,
// service).
//
// Encoded artifacts are base32 (RFC 4648, no padding) strings carrying a
// prefix, the raw key bytes and a CRC-16 checksum:
//
//   - public keys: [role prefix] ++ 32-byte public key ++ crc16
//   - seeds:       [seed prefix | role, role] ++ 32-byte seed ++ crc16
//   - private keys: [private prefix] ++ 64-byte private key ++ crc16
//
// A KeyPair built from a seed can sign; a KeyPair built from a public key can
// only verify.
//
// API stability:
//
// Stable (SemVer-protected):
//   - Role prefix bytes and the seed/public key layouts. Other implementations
//     of this encoding depend on them byte-for-byte.
//
// Experimental:
//   - Role seed derivation (DeriveRoleSeed, FromDerivedSeed).
package nkeys
