package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/password_hasher_mock.go -package=mock

// PasswordHasher handles server-side credential hashing. It knows nothing
// about the network, the database, or users; its only job is to turn
// plaintext passwords into storable hashes and verify them later.
type PasswordHasher interface {
	// Hash derives a salted hash from password and returns it in the PHC
	// encoded form ($argon2id$v=...$m=...,t=...,p=...$salt$hash). The
	// encoded string is self-describing and safe to store as-is.
	Hash(password string) (string, error)

	// Verify checks password against an encoded hash produced by Hash.
	// It returns true only when the password matches; a malformed encoded
	// hash yields an error.
	Verify(password, encodedHash string) (bool, error)
}
