package security

// CredentialHasher derives and checks one-way digests of secrets
type CredentialHasher interface {
	// Hash returns a salted digest of secret
	Hash(secret string) (string, error)
	// Compare reports whether secret matches digest
	Compare(secret, digest string) bool
}

// BindSecret ties a secret to the identity it belongs to, so a digest copied
// onto another account never verifies there.
func BindSecret(secret, normalizedEmail string) string {
	return secret + ":" + normalizedEmail
}
