package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"

	// KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

type kmsService struct{}

// NewKMSService creates a KMSService backed by gocloud.dev/secrets.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper supports gcpkms://, awskms://, azurekeyvault://, hashivault:// and base64key://.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// LoadSigningKey decodes the base64 audit signing key. When keyURI is set the
// decoded bytes are a KMS ciphertext and are decrypted through the keeper.
func LoadSigningKey(ctx context.Context, kms KMSService, keyURI, encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, accessDomain.ErrSigningKeyMissing
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audit signing key: %w", err)
	}

	if keyURI == "" {
		return decoded, nil
	}

	keeper, err := kms.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = keeper.Close()
	}()

	key, err := keeper.Decrypt(ctx, decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt audit signing key: %w", err)
	}
	return key, nil
}
