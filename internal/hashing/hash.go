// Package hashing provides the content fingerprints used for change
// detection. All hashes are hex-encoded SHA-256.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
)

// Bytes hashes raw content.
func Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// String hashes string content.
func String(s string) string {
	return Bytes([]byte(s))
}

// File hashes a file's content without loading it into memory.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Aggregate combines per-item digests into a single digest that does not
// depend on input order: the digests are sorted before being re-hashed, so
// two sets with the same members always agree.
func Aggregate(digests []string) string {
	sorted := make([]string, len(digests))
	copy(sorted, digests)
	sort.Strings(sorted)

	h := sha256.New()
	for _, d := range sorted {
		io.WriteString(h, d)
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
