package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

const (
	privateKeyPEMType = "RSA PRIVATE KEY"
	publicKeyPEMType  = "PUBLIC KEY"

	// keyBits is the RSA modulus size for generated signing keys.
	keyBits = 4096
)

// KeyPair holds the asymmetric key pair used to sign and verify credentials.
// It is loaded once at process start and shared read-only across requests.
type KeyPair struct {
	PrivateKey *rsa.PrivateKey
	PublicKey  *rsa.PublicKey
}

// LoadOrGenerateKeyPair loads the signing key pair from the given PEM file
// paths, generating and persisting a new pair when the private key file does
// not exist yet. Generated files are written with owner-only permissions.
func LoadOrGenerateKeyPair(privateKeyPath, publicKeyPath string, logger *slog.Logger) (*KeyPair, error) {
	if _, err := os.Stat(privateKeyPath); os.IsNotExist(err) {
		logger.Info("signing key pair not found, generating a new one",
			slog.String("private_key_path", privateKeyPath),
			slog.String("public_key_path", publicKeyPath),
		)
		return GenerateKeyPair(privateKeyPath, publicKeyPath)
	}

	return loadKeyPair(privateKeyPath, publicKeyPath)
}

// loadKeyPair reads and parses both PEM files.
func loadKeyPair(privateKeyPath, publicKeyPath string) (*KeyPair, error) {
	privatePEM, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read private key file")
	}

	privateKey, err := parsePrivateKeyPEM(privatePEM)
	if err != nil {
		return nil, err
	}

	publicPEM, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read public key file")
	}

	publicKey, err := parsePublicKeyPEM(publicPEM)
	if err != nil {
		return nil, err
	}

	return &KeyPair{PrivateKey: privateKey, PublicKey: publicKey}, nil
}

// GenerateKeyPair creates a new RSA key pair and persists both halves.
func GenerateKeyPair(privateKeyPath, publicKeyPath string) (*KeyPair, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate signing key pair")
	}

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  privateKeyPEMType,
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})

	publicBytes, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode public key")
	}
	publicPEM := pem.EncodeToMemory(&pem.Block{
		Type:  publicKeyPEMType,
		Bytes: publicBytes,
	})

	if err := os.MkdirAll(filepath.Dir(privateKeyPath), 0o700); err != nil {
		return nil, apperrors.Wrap(err, "failed to create key directory")
	}
	if err := os.WriteFile(privateKeyPath, privatePEM, 0o600); err != nil {
		return nil, apperrors.Wrap(err, "failed to write private key file")
	}
	if err := os.WriteFile(publicKeyPath, publicPEM, 0o644); err != nil {
		return nil, apperrors.Wrap(err, "failed to write public key file")
	}

	return &KeyPair{PrivateKey: privateKey, PublicKey: &privateKey.PublicKey}, nil
}

// parsePrivateKeyPEM parses a PEM encoded RSA private key in either PKCS#1 or
// PKCS#8 form.
func parsePrivateKeyPEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, apperrors.New("private key file is not PEM encoded")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse private key")
	}

	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, apperrors.New("private key is not an RSA key")
	}
	return key, nil
}

// parsePublicKeyPEM parses a PEM encoded RSA public key in either PKIX or
// PKCS#1 form.
func parsePublicKeyPEM(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, apperrors.New("public key file is not PEM encoded")
	}

	if parsed, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		key, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, apperrors.New("public key is not an RSA key")
		}
		return key, nil
	}

	key, err := x509.ParsePKCS1PublicKey(block.Bytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse public key")
	}
	return key, nil
}
