package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	apperrors "github.com/allisson/registry-auth/internal/errors"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// kmsService implements KMSService using gocloud.dev/secrets.
type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a secrets.Keeper for the configured KMS provider using the keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// kmsPasswordCipher implements PasswordCipher on top of a KMSService.
type kmsPasswordCipher struct {
	kms KMSService
}

// NewPasswordCipher creates a PasswordCipher backed by the given KMS service.
func NewPasswordCipher(kms KMSService) PasswordCipher {
	return &kmsPasswordCipher{kms: kms}
}

// EncryptPassword encrypts password with the keeper behind keyURI.
func (p *kmsPasswordCipher) EncryptPassword(ctx context.Context, keyURI, password string) (string, error) {
	if password == "" {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "password is empty")
	}

	keeper, err := p.kms.OpenKeeper(ctx, keyURI)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = keeper.Close()
	}()

	ciphertext, err := keeper.Encrypt(ctx, []byte(password))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encrypt password")
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptPassword decrypts a base64 ciphertext produced by EncryptPassword.
func (p *kmsPasswordCipher) DecryptPassword(ctx context.Context, keyURI, ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "password ciphertext is not valid base64")
	}

	keeper, err := p.kms.OpenKeeper(ctx, keyURI)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = keeper.Close()
	}()

	plaintext, err := keeper.Decrypt(ctx, raw)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to decrypt password")
	}

	return string(plaintext), nil
}
