package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"

	authService "github.com/allisson/registry-auth/internal/auth/service"
)

// RunEncryptPassword encrypts the admin password with the KMS key behind keyURI and
// prints the base64 ciphertext to use as PASSWORD_CIPHERTEXT. When password is empty
// the first line of the IOTuple reader is used.
func RunEncryptPassword(
	ctx context.Context,
	cipher authService.PasswordCipher,
	logger *slog.Logger,
	io IOTuple,
	keyURI string,
	password string,
) error {
	if keyURI == "" {
		return fmt.Errorf(
			"--kms-key-uri is required\n\nFor local development, use:\n  --kms-key-uri=\"base64key://<32-byte-base64-key>\"",
		)
	}

	if password == "" {
		line, err := readLine(io)
		if err != nil {
			return err
		}
		password = line
	}
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}

	ciphertext, err := cipher.EncryptPassword(ctx, keyURI, password)
	if err != nil {
		return fmt.Errorf("failed to encrypt password: %w", err)
	}

	logger.Info("password encrypted", slog.String("kms_key_uri_scheme", uriScheme(keyURI)))

	_, _ = fmt.Fprintf(io.Writer, "PASSWORD_CIPHERTEXT=\"%s\"\n", ciphertext)
	_, _ = fmt.Fprintf(io.Writer, "KMS_KEY_URI=\"%s\"\n", keyURI)
	return nil
}

func readLine(tuple IOTuple) (string, error) {
	scanner := bufio.NewScanner(tuple.Reader)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return "", nil
}

func uriScheme(uri string) string {
	scheme, _, found := strings.Cut(uri, "://")
	if !found {
		return ""
	}
	return scheme
}
