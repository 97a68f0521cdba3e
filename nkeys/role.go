package nkeys

import (
	"fmt"
	"strings"
)

// Role is the identity category a key pair represents.
type Role uint8

const (
	RoleServer Role = iota + 1
	RoleCluster
	RoleOperator
	RoleAccount
	RoleUser
	RoleModule
	RoleService
)

// Prefix bytes. Values are shared with every other implementation of this
// encoding and must never change.
const (
	PrefixByteSeed     byte = 18 << 3 // S
	PrefixBytePrivate  byte = 15 << 3 // P
	PrefixByteServer   byte = 13 << 3 // N
	PrefixByteCluster  byte = 2 << 3  // C
	PrefixByteOperator byte = 14 << 3 // O
	PrefixByteModule   byte = 12 << 3 // M
	PrefixByteAccount  byte = 0       // A
	PrefixByteUser     byte = 20 << 3 // U
	PrefixByteService  byte = 21 << 3 // V

	// PrefixByteUnknown is reserved and never maps to a role.
	PrefixByteUnknown byte = 23 << 3
)

type roleEntry struct {
	role   Role
	prefix byte
	name   string
}

// roleTable is the single source of truth for the role mapping.
var roleTable = [...]roleEntry{
	{RoleServer, PrefixByteServer, "SERVER"},
	{RoleCluster, PrefixByteCluster, "CLUSTER"},
	{RoleOperator, PrefixByteOperator, "OPERATOR"},
	{RoleAccount, PrefixByteAccount, "ACCOUNT"},
	{RoleUser, PrefixByteUser, "USER"},
	{RoleModule, PrefixByteModule, "MODULE"},
	{RoleService, PrefixByteService, "SERVICE"},
}

var (
	roleByPrefix = make(map[byte]Role, len(roleTable))
	roleByName   = make(map[string]Role, len(roleTable))
)

func init() {
	for _, e := range roleTable {
		roleByPrefix[e.prefix] = e.role
		roleByName[e.name] = e.role
	}
}

func (r Role) entry() (roleEntry, bool) {
	if r < RoleServer || r > RoleService {
		return roleEntry{}, false
	}
	return roleTable[r-RoleServer], true
}

// Valid reports whether r is one of the seven defined roles.
func (r Role) Valid() bool {
	_, ok := r.entry()
	return ok
}

// PrefixByte returns the 1-byte prefix code for r. It returns
// PrefixByteUnknown for an undefined Role value.
func (r Role) PrefixByte() byte {
	e, ok := r.entry()
	if !ok {
		return PrefixByteUnknown
	}
	return e.prefix
}

// PrefixChar returns the first character of an encoded public key of role r.
func (r Role) PrefixChar() byte {
	return base32Alphabet[r.PrefixByte()>>3]
}

func (r Role) String() string {
	e, ok := r.entry()
	if !ok {
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
	return e.name
}

func (r Role) MarshalText() ([]byte, error) {
	if err := checkRole(r); err != nil {
		return nil, err
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Roles returns all roles in registry order.
func Roles() []Role {
	out := make([]Role, 0, len(roleTable))
	for _, e := range roleTable {
		out = append(out, e.role)
	}
	return out
}

// RoleFromPrefixByte maps a prefix byte back to its role. Unrecognized bytes
// are an error; there is no fallback role.
func RoleFromPrefixByte(b byte) (Role, error) {
	r, ok := roleByPrefix[b]
	if !ok {
		return 0, newError(KindUnknownPrefix, fmt.Sprintf("unknown role prefix byte %d", b))
	}
	return r, nil
}

// ParseRole matches a role name case-insensitively ("user", "User", "USER").
func ParseRole(name string) (Role, error) {
	r, ok := roleByName[strings.ToUpper(name)]
	if !ok {
		return 0, newError(KindUnknownRoleName, fmt.Sprintf("unknown role name %q", name))
	}
	return r, nil
}

// checkRole rejects Role values outside the prefix table.
func checkRole(r Role) error {
	if !r.Valid() {
		return newError(KindUnknownPrefix, fmt.Sprintf("undefined role value %d", uint8(r)))
	}
	return nil
}
