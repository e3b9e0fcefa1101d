package commands

import (
	"fmt"
	"log/slog"
	"os"

	tokenService "github.com/allisson/proxyadmin/internal/token/service"
)

// RunGenerateKeys creates the RSA key pair used to sign and verify tokens and
// writes both halves to the given PEM file paths. Existing files are never
// overwritten unless force is set.
func RunGenerateKeys(
	logger *slog.Logger,
	privateKeyPath string,
	publicKeyPath string,
	force bool,
	io IOTuple,
) error {
	if !force {
		for _, path := range []string{privateKeyPath, publicKeyPath} {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("key file already exists: %s (use --force to overwrite)", path)
			}
		}
	}

	logger.Info("generating signing key pair",
		slog.String("private_key_path", privateKeyPath),
		slog.String("public_key_path", publicKeyPath),
	)

	if _, err := tokenService.GenerateKeyPair(privateKeyPath, publicKeyPath); err != nil {
		return fmt.Errorf("failed to generate key pair: %w", err)
	}

	_, _ = fmt.Fprintln(io.Writer, "Signing key pair generated successfully!")
	_, _ = fmt.Fprintf(io.Writer, "Private key: %s\n", privateKeyPath)
	_, _ = fmt.Fprintf(io.Writer, "Public key:  %s\n", publicKeyPath)

	return nil
}
