// SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedHash is returned by Verify when the stored encoded hash cannot
// be parsed back into its Argon2id parameters.
var ErrMalformedHash = errors.New("malformed encoded hash")

// passwordHasher is the private implementation of [PasswordHasher].
type passwordHasher struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target.
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
	saltLen      uint32
}

// NewPasswordHasher constructs a [PasswordHasher] with the Argon2id
// parameters recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewPasswordHasher() PasswordHasher {
	return &passwordHasher{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
		saltLen:      16,
	}
}

// Hash implements [PasswordHasher]. It reads a random salt from the OS
// CSPRNG, derives the Argon2id digest, and encodes both together with the
// parameters in the PHC string format. Returns an error if the random read
// fails.
func (p *passwordHasher) Hash(password string) (string, error) {
	salt := make([]byte, p.saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, p.argonTime, p.argonMemory, p.argonThreads, p.argonKeyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.argonMemory,
		p.argonTime,
		p.argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)

	return encoded, nil
}

// Verify implements [PasswordHasher]. It parses the stored encoded hash,
// re-derives the digest from password with the stored parameters, and
// compares the two in constant time. The comparison never leaks which byte
// differed.
func (p *passwordHasher) Verify(password, encodedHash string) (bool, error) {
	params, salt, digest, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, uint32(len(digest)))

	return subtle.ConstantTimeCompare(digest, candidate) == 1, nil
}

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
}

// decodeHash splits a PHC-encoded Argon2id hash into its parameters, salt,
// and digest. Expected layout: $argon2id$v=19$m=...,t=...,p=...$salt$hash.
func decodeHash(encodedHash string) (argonParams, []byte, []byte, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return argonParams{}, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return argonParams{}, nil, nil, ErrMalformedHash
	}
	if version != argon2.Version {
		return argonParams{}, nil, nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedHash, version)
	}

	var params argonParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.threads); err != nil {
		return argonParams{}, nil, nil, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return argonParams{}, nil, nil, ErrMalformedHash
	}

	digest, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return argonParams{}, nil, nil, ErrMalformedHash
	}

	return params, salt, digest, nil
}
