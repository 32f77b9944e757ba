package protocol

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"
)

// encryptSessionSecret plays the device side of the handshake: parse the
// client's PEM public key and RSA-encrypt the session secret with it.
func encryptSessionSecret(t *testing.T, publicPEM string, secret []byte) string {
	t.Helper()

	block, _ := pem.Decode([]byte(publicPEM))
	if block == nil || block.Type != "PUBLIC KEY" {
		t.Fatalf("PublicPEM did not produce a PUBLIC KEY block")
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		t.Fatalf("failed to parse public key: %v", err)
	}
	public, ok := parsed.(*rsa.PublicKey)
	if !ok {
		t.Fatalf("public key is %T, want *rsa.PublicKey", parsed)
	}

	encrypted, err := rsa.EncryptPKCS1v15(rand.Reader, public, secret)
	if err != nil {
		t.Fatalf("failed to encrypt session secret: %v", err)
	}

	return base64.StdEncoding.EncodeToString(encrypted)
}

func TestHandshakeKeyExchange(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	publicPEM, err := kp.PublicPEM()
	if err != nil {
		t.Fatalf("PublicPEM failed: %v", err)
	}

	secret := make([]byte, sessionSecretLen)
	copy(secret[:16], "0123456789abcdef")
	copy(secret[16:], "fedcba9876543210")

	cipher, err := kp.DecryptSessionKey(encryptSessionSecret(t, publicPEM, secret))
	if err != nil {
		t.Fatalf("DecryptSessionKey failed: %v", err)
	}

	// The derived cipher must interoperate with one built directly from the
	// same key and IV halves.
	direct, err := NewSessionCipher(secret[:16], secret[16:])
	if err != nil {
		t.Fatalf("NewSessionCipher failed: %v", err)
	}

	plaintext := []byte(`{"method":"login_device"}`)
	decrypted, err := direct.Decrypt(cipher.Encrypt(plaintext))
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("decrypted = %q, want %q", decrypted, plaintext)
	}
}

func TestDecryptSessionKeyRejectsBadInput(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	t.Run("not base64", func(t *testing.T) {
		if _, err := kp.DecryptSessionKey("!!bad!!"); !IsParseError(err) {
			t.Errorf("expected parse error, got %v", err)
		}
	})

	t.Run("wrong key pair", func(t *testing.T) {
		other, err := GenerateKeyPair()
		if err != nil {
			t.Fatalf("GenerateKeyPair failed: %v", err)
		}
		otherPEM, err := other.PublicPEM()
		if err != nil {
			t.Fatalf("PublicPEM failed: %v", err)
		}

		encoded := encryptSessionSecret(t, otherPEM, make([]byte, sessionSecretLen))
		if _, err := kp.DecryptSessionKey(encoded); !IsParseError(err) {
			t.Errorf("expected parse error, got %v", err)
		}
	})

	t.Run("wrong secret length", func(t *testing.T) {
		publicPEM, err := kp.PublicPEM()
		if err != nil {
			t.Fatalf("PublicPEM failed: %v", err)
		}

		encoded := encryptSessionSecret(t, publicPEM, make([]byte, 16))
		if _, err := kp.DecryptSessionKey(encoded); !IsParseError(err) {
			t.Errorf("expected parse error, got %v", err)
		}
	})
}
