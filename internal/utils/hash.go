package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// FileChecksum computes the SHA-256 content checksum of the file at path and
// returns it hex-encoded. This is the checksum scheme recorded in project
// metadata documents and compared during synchronization.
func FileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()

	return Checksum(f)
}

// Checksum computes the hex-encoded SHA-256 checksum of everything read
// from r.
func Checksum(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("read content for checksum: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashString computes an HMAC-SHA256 signature over the given string
// using the provided hash key and returns the result as a hex-encoded string.
//
// Used for transport payload integrity: the client signs push payloads and
// the server recomputes the signature before accepting them.
func HashString(data string, hashKey string) string {
	return hex.EncodeToString(hashBytes([]byte(data), hashKey))
}

// hashBytes computes an HMAC-SHA256 digest over the given byte slice
// using the provided hash key. A new HMAC instance is created on each call.
func hashBytes(data []byte, hashKey string) []byte {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write(data)
	return hasher.Sum(nil)
}
