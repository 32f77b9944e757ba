package protocol

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
)

// rsaKeyBits is the key length the firmware accepts during the handshake.
// Larger keys are rejected with CodeInvalidPublicKeyLength.
const rsaKeyBits = 1024

// sessionSecretLen is the length of the RSA-encrypted handshake payload:
// a 16-byte AES key followed by a 16-byte IV.
const sessionSecretLen = 32

// KeyPair is the ephemeral RSA key pair used for one handshake
type KeyPair struct {
	private *rsa.PrivateKey
}

// GenerateKeyPair creates a fresh handshake key pair
func GenerateKeyPair() (*KeyPair, error) {
	private, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}
	return &KeyPair{private: private}, nil
}

// PublicPEM returns the public key in the PEM form the handshake request
// carries in its key parameter.
func (kp *KeyPair) PublicPEM() (string, error) {
	der, err := x509.MarshalPKIXPublicKey(&kp.private.PublicKey)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}

	encoded := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: der,
	})

	return string(encoded), nil
}

// DecryptSessionKey decrypts the handshake result's key blob and returns the
// session cipher. The blob is the base64 of the 32-byte session secret
// encrypted with this key pair's public key.
func (kp *KeyPair) DecryptSessionKey(encoded string) (*SessionCipher, error) {
	encrypted, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, NewParseError("handshake key is not valid base64", err)
	}

	secret, err := rsa.DecryptPKCS1v15(rand.Reader, kp.private, encrypted)
	if err != nil {
		return nil, NewParseError("failed to decrypt handshake key", err)
	}

	if len(secret) != sessionSecretLen {
		return nil, NewParseError(
			fmt.Sprintf("handshake secret is %d bytes, want %d", len(secret), sessionSecretLen), nil)
	}

	return NewSessionCipher(secret[:16], secret[16:])
}
