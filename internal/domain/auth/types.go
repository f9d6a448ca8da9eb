package auth

// Package auth contains domain-level types for sessions, roles and route gating.
// It is pure and free of framework/adapter concerns.

import (
	"encoding/json"
	"strings"
)

// Role represents a coarse privilege level carried in the user profile.
// Keep string form; it is persisted verbatim inside the serialized user record.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
	// RoleNone is the role of a profile that carries no role field at all.
	RoleNone Role = ""
)

// roleRank orders the known roles. Unknown roles rank below viewer.
var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleAdmin:  3,
}

// ParseRole normalises operator input such as flags and account config. Stored
// profile records are never normalised; their role is compared verbatim.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether r is one of the declared roles.
func (r Role) Known() bool {
	_, ok := roleRank[r]
	return ok
}

// Satisfies reports whether a caller holding r may access a destination that requires required.
// Admin satisfies editor; nothing satisfies an unknown requirement.
func (r Role) Satisfies(required Role) bool {
	if required == RoleNone {
		return true
	}
	need, ok := roleRank[required]
	if !ok {
		return false
	}
	return roleRank[r] >= need
}

// User is the cached profile stored next to the token.
// Unknown JSON fields are ignored so backend profile additions do not break decoding.
type User struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

// StoredSession is the raw persisted pair: the "token" key and the JSON "user" key.
// Store adapters read and write it as a unit.
type StoredSession struct {
	Token string
	User  string
}

// Empty reports whether neither key holds a value.
func (s StoredSession) Empty() bool { return s.Token == "" && s.User == "" }

// Session is the decoded caller session.
type Session struct {
	Token string
	User  User
}

// HasToken reports whether the session carries a credential.
func (s Session) HasToken() bool { return s.Token != "" }

// Role returns the caller's role, RoleNone when absent.
func (s Session) Role() Role { return s.User.Role }

// DecodeUser parses a serialized user record. Input that is not a JSON object yields
// the empty profile (role absent). Inside an object each field is decoded on its own,
// so a profile field of an unexpected type never costs the caller its role.
func DecodeUser(raw string) User {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		return User{}
	}
	var u User
	decodeField(fields, "id", &u.ID)
	decodeField(fields, "username", &u.Username)
	decodeField(fields, "email", &u.Email)
	decodeField(fields, "role", &u.Role)
	return u
}

// decodeField leaves dst unchanged when key is absent or holds another JSON type.
func decodeField(fields map[string]json.RawMessage, key string, dst any) {
	if v, ok := fields[key]; ok {
		_ = json.Unmarshal(v, dst)
	}
}

// EncodeUser serializes a profile for storage.
func EncodeUser(u User) (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeSession turns the raw pair into a Session. It never fails.
func DecodeSession(s StoredSession) Session {
	return Session{Token: s.Token, User: DecodeUser(s.User)}
}
