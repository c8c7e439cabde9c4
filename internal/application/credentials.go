package application

import "github.com/soundvault/vinylstore/pkg/helpers"

// CredentialCodec encodes passwords for storage and compares supplied
// passwords against stored ones.
//
// SECURITY: the default (Bcrypt=false) stores and compares passwords as
// plain text, by equality. This reproduces the behavior of the system this
// service replaces and MUST NOT be used for a real deployment; set
// AUTH_BCRYPT_ENABLED=true to store bcrypt hashes instead.
type CredentialCodec struct {
	Bcrypt bool
}

// Encode prepares a plain password for storage.
func (c CredentialCodec) Encode(plain string) (string, error) {
	if c.Bcrypt {
		return helpers.HashPassword(plain)
	}
	return plain, nil
}

// Compare reports whether the supplied password matches the stored one.
func (c CredentialCodec) Compare(stored, supplied string) bool {
	if c.Bcrypt {
		return helpers.CompareHashAndPassword(stored, supplied)
	}
	return stored == supplied
}
