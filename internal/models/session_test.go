package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrictBool_OnlyLiteralTrueReadsTrue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"boolean true", `{"isAdmin":true}`, true},
		{"boolean false", `{"isAdmin":false}`, false},
		{"integer one", `{"isAdmin":1}`, false},
		{"integer zero", `{"isAdmin":0}`, false},
		{"string true", `{"isAdmin":"true"}`, false},
		{"null", `{"isAdmin":null}`, false},
		{"absent", `{}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Session
			require.NoError(t, json.Unmarshal([]byte(tt.in), &s))
			assert.Equal(t, tt.want, s.IsAdmin.Bool())
		})
	}
}

func TestStrictBool_MarshalsCanonicalBool(t *testing.T) {
	out, err := json.Marshal(Session{ID: 2, Username: "bob", IsAdmin: true, Token: "tok"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":2,"username":"bob","isAdmin":true,"token":"tok"}`, string(out))
}

func TestSession_Valid(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.Valid())
	assert.False(t, (&Session{Username: "alice"}).Valid())
	assert.True(t, (&Session{Username: "alice", Token: "t"}).Valid())
}
