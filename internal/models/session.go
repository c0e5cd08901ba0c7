// Package models defines the data types exchanged with the notes backend and
// the derived view types built from them.
package models

import "bytes"

// StrictBool is a bool that only unmarshals JSON `true` as true. The backend
// has historically emitted admin flags as booleans, 0/1 integers and strings;
// for access-control purposes anything but a literal boolean true reads as
// false. Unmarshalling never fails: a malformed value degrades to false.
type StrictBool bool

var jsonTrue = []byte("true")

func (b *StrictBool) UnmarshalJSON(data []byte) error {
	*b = StrictBool(bytes.Equal(bytes.TrimSpace(data), jsonTrue))
	return nil
}

func (b StrictBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// Bool returns the normalized value.
func (b StrictBool) Bool() bool { return bool(b) }

// Session is the client-held proof of authentication: identity, role flag
// and the bearer token issued by the backend.
type Session struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	IsAdmin  StrictBool `json:"isAdmin"`
	Token    string     `json:"token"`
}

// Valid reports whether the session carries a token. A session without a
// token must never be treated as authenticated.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}
