package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/secretdrop/secretdrop/internal/crypto/domain"
	cryptoService "github.com/secretdrop/secretdrop/internal/crypto/service"
)

// RunCreateEncryptionKey generates a 32-byte payload encryption key and prints it as
// environment variables. With kmsKeyURI set, the key is wrapped by the KMS keeper and the
// printed ENCRYPTION_KEY is the base64 KMS ciphertext. Key material is zeroed after encoding.
//
// Security: Never use the base64key:// (localsecrets) provider in production.
func RunCreateEncryptionKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	algorithm string,
	kmsKeyURI string,
) error {
	alg, err := cryptoDomain.ParseAlgorithm(algorithm)
	if err != nil {
		return err
	}

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate encryption key: %w", err)
	}
	defer cryptoDomain.Zero(key)

	material := key
	if kmsKeyURI != "" {
		keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := keeper.Close(); closeErr != nil {
				logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
			}
		}()

		material, err = keeper.Encrypt(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to encrypt encryption key with KMS: %w", err)
		}
	}

	encoded := base64.StdEncoding.EncodeToString(material)

	_, _ = fmt.Fprintln(writer, "# Encryption key configuration")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintf(writer, "ENCRYPTION_ALGORITHM=\"%s\"\n", alg)
	_, _ = fmt.Fprintf(writer, "ENCRYPTION_KEY=\"%s\"\n", encoded)
	if kmsKeyURI != "" {
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	}

	logger.Info("encryption key created",
		slog.String("algorithm", string(alg)),
		slog.Bool("kms_wrapped", kmsKeyURI != ""),
	)
	return nil
}
