package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUser(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want User
	}{
		{name: "empty", raw: "", want: User{}},
		{name: "empty object", raw: "{}", want: User{}},
		{name: "malformed", raw: "{not json", want: User{}},
		{name: "wrong shape", raw: `["admin"]`, want: User{}},
		{
			name: "full profile",
			raw:  `{"id":7,"username":"alice","email":"a@example.com","role":"editor","extra":true}`,
			want: User{ID: 7, Username: "alice", Email: "a@example.com", Role: RoleEditor},
		},
		{name: "null", raw: "null", want: User{}},
		{name: "role kept verbatim", raw: `{"role":" Admin "}`, want: User{Role: Role(" Admin ")}},
		{
			name: "string id keeps role",
			raw:  `{"id":"u-1","username":"root","role":"admin"}`,
			want: User{Username: "root", Role: RoleAdmin},
		},
		{name: "non-string role", raw: `{"role":3,"username":"x"}`, want: User{Username: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeUser(tt.raw))
		})
	}
}

func TestDecodeSession_MalformedUserKeepsToken(t *testing.T) {
	sess := DecodeSession(StoredSession{Token: "t1", User: "garbage"})
	assert.True(t, sess.HasToken())
	assert.Equal(t, RoleNone, sess.Role())
}

func TestDecodeSession_ForeignProfileFieldsKeepRole(t *testing.T) {
	sess := DecodeSession(StoredSession{Token: "t1", User: `{"id":"u-1","role":"admin","email":null}`})
	assert.Equal(t, RoleAdmin, sess.Role())
	assert.True(t, sess.Role().Satisfies(RoleAdmin))

	sess = DecodeSession(StoredSession{Token: "t1", User: `{"role":" ADMIN "}`})
	assert.False(t, sess.Role().Satisfies(RoleAdmin))
}

func TestEncodeUser_RoundTripsRole(t *testing.T) {
	raw, err := EncodeUser(User{Username: "bob", Role: RoleViewer})
	require.NoError(t, err)
	assert.Equal(t, RoleViewer, DecodeUser(raw).Role)
}

func TestRoleSatisfies(t *testing.T) {
	tests := []struct {
		have, need Role
		want       bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleEditor, RoleAdmin, false},
		{RoleViewer, RoleAdmin, false},
		{RoleNone, RoleAdmin, false},
		{RoleAdmin, RoleEditor, true},
		{RoleEditor, RoleEditor, true},
		{RoleViewer, RoleEditor, false},
		{RoleNone, RoleEditor, false},
		{Role("superuser"), RoleEditor, false},
		{RoleAdmin, Role("superuser"), false},
		{RoleNone, RoleNone, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.have)+"->"+string(tt.need), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.have.Satisfies(tt.need))
		})
	}
}

func TestVerdict(t *testing.T) {
	assert.True(t, Proceed().IsProceed())
	assert.True(t, Verdict{}.IsProceed())

	v := RedirectTo("/login")
	assert.False(t, v.IsProceed())
	path, ok := v.Redirect()
	assert.True(t, ok)
	assert.Equal(t, "/login", path)
	assert.Equal(t, "redirect:/login", v.String())
}
