// Package service provides technical services for authentication operations.
//
// This package implements credential extraction from HTTP requests, constant-time
// comparison and KMS-backed decryption of the configured admin password.
package service

import (
	"context"
	"net/http"

	authDomain "github.com/allisson/registry-auth/internal/auth/domain"
)

// CredentialExtractor reads a username/password pair from an HTTP request.
type CredentialExtractor interface {
	// ExtractCredentials never fails: a missing header yields ExtractionNone and a
	// header that cannot be decoded yields ExtractionInvalid.
	ExtractCredentials(r *http.Request) authDomain.ExtractedCredentials
}

// KMSKeeper is the subset of *secrets.Keeper used by this package.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens keepers for a KMS key URI.
type KMSService interface {
	// OpenKeeper opens a keeper for the configured KMS provider.
	// Returns an error if the KMS provider URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}

// PasswordCipher encrypts and decrypts the admin password with a KMS key so it does
// not have to be stored in plain text in the environment.
type PasswordCipher interface {
	// EncryptPassword returns the base64 (standard encoding) ciphertext of password.
	EncryptPassword(ctx context.Context, keyURI, password string) (string, error)

	// DecryptPassword reverses EncryptPassword.
	DecryptPassword(ctx context.Context, keyURI, ciphertext string) (string, error)
}
