package util

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"github.com/taigrr/colorhash"
)

// GetFileHash hashes a regular file and returns the hash as a hex string.
func GetFileHash(path string) (hash string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", ErrExpectedFile
	}
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return GetHash(file)
}

// GetHash calculates the SHA-256 hash of data from an io.Reader.
// It returns the hash as a hexadecimal string.
func GetHash(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// GetStringHash hashes s, for keys derived from paths.
func GetStringHash(s string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(s)))
}

// Bucket spreads s across n buckets using a color hash of the string.
func Bucket(s string, n int) int {
	if n <= 0 {
		return 0
	}
	b := int(colorhash.HashString(s)) % n
	if b < 0 {
		b += n
	}
	return b
}
