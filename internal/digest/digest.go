// Package digest computes deterministic content fingerprints of the form
// "<prefix><64 lowercase hex characters>".
package digest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/blake2b"

	apperrors "github.com/allisson/registry-auth/internal/errors"
)

const (
	// SHA256Algorithm is the algorithm name of the default hasher.
	SHA256Algorithm = "sha256"
	// Blake2b256Algorithm is the algorithm name of the BLAKE2b-256 hasher.
	Blake2b256Algorithm = "blake2b"

	// DefaultPrefix is prepended to digests when no prefix is given.
	DefaultPrefix = SHA256Algorithm + ":"

	// hexLength is the number of hex characters of a 256-bit digest.
	hexLength = 64

	readChunkSize = 32 * 1024
)

// ErrInvalidDigest indicates a string is not a well-formed digest.
var ErrInvalidDigest = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid digest")

// Hasher computes a 256-bit hash of a byte slice.
type Hasher interface {
	Sum256(data []byte) [32]byte
}

// SHA256Hasher hashes with SHA-256.
type SHA256Hasher struct{}

// Sum256 implements Hasher.
func (SHA256Hasher) Sum256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// Blake2b256Hasher hashes with unkeyed BLAKE2b-256.
type Blake2b256Hasher struct{}

// Sum256 implements Hasher.
func (Blake2b256Hasher) Sum256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// Digester renders digests for a fixed hasher and prefix.
type Digester struct {
	hasher Hasher
	prefix string
}

// NewDigester creates a Digester. An empty prefix is kept empty, not defaulted.
func NewDigester(hasher Hasher, prefix string) *Digester {
	return &Digester{hasher: hasher, prefix: prefix}
}

// ForAlgorithm returns a Digester for a named algorithm using "<algorithm>:" as prefix.
func ForAlgorithm(algorithm string) (*Digester, error) {
	switch algorithm {
	case SHA256Algorithm, "":
		return NewDigester(SHA256Hasher{}, DefaultPrefix), nil
	case Blake2b256Algorithm:
		return NewDigester(Blake2b256Hasher{}, Blake2b256Algorithm+":"), nil
	default:
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unsupported digest algorithm %q", algorithm)
	}
}

// Prefix returns the prefix prepended to every digest.
func (d *Digester) Prefix() string {
	return d.prefix
}

// WithPrefix returns a Digester with the same hasher and a different prefix.
func (d *Digester) WithPrefix(prefix string) *Digester {
	return NewDigester(d.hasher, prefix)
}

// Compute returns the digest of data.
func (d *Digester) Compute(data []byte) string {
	sum := d.hasher.Sum256(data)
	return render(sum[:], d.prefix)
}

// Compute returns the SHA-256 digest of data with the given prefix, for example
// Compute(nil, DefaultPrefix) is
// "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855".
func Compute(data []byte, prefix string) string {
	return NewDigester(SHA256Hasher{}, prefix).Compute(data)
}

// ComputeString returns the SHA-256 digest of the UTF-8 bytes of s.
func ComputeString(s, prefix string) string {
	return Compute([]byte(s), prefix)
}

// ComputeReader streams r through SHA-256 and returns its digest. The context is
// checked between chunks only; no deadline is imposed by this function.
func ComputeReader(ctx context.Context, r io.Reader, prefix string) (string, error) {
	h := sha256.New()
	buf := make([]byte, readChunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		n, err := r.Read(buf)
		if n > 0 {
			_, _ = h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read digest input: %w", err)
		}
	}

	return render(h.Sum(nil), prefix), nil
}

// Parse splits a "<algorithm>:<hex>" digest and validates the hex part.
func Parse(digest string) (algorithm string, encoded string, err error) {
	algorithm, encoded, found := strings.Cut(digest, ":")
	if !found || algorithm == "" {
		return "", "", apperrors.Wrapf(ErrInvalidDigest, "missing algorithm in %q", digest)
	}

	if len(encoded) != hexLength {
		return "", "", apperrors.Wrapf(
			ErrInvalidDigest,
			"expected %d hex characters, got %d",
			hexLength,
			len(encoded),
		)
	}

	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", "", apperrors.Wrapf(ErrInvalidDigest, "non lowercase hex character at %d", i)
		}
	}

	return algorithm, encoded, nil
}

// Validate reports whether digest is well formed.
func Validate(digest string) error {
	_, _, err := Parse(digest)
	return err
}

func render(sum []byte, prefix string) string {
	return prefix + hex.EncodeToString(sum)
}
