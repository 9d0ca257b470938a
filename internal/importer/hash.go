package importer

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
)

// CalculateHash computes the SHA-256 of an import file's content. Runs are
// keyed by it so the same file cannot be imported twice at once.
func CalculateHash(content []byte) (string, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, bytes.NewReader(content)); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
