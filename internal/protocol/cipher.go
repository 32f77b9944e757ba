package protocol

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
)

// SessionCipher encrypts and decrypts passthrough payloads with the AES key
// and IV negotiated during the handshake. The firmware reuses the session IV
// for every message, so the cipher is stateless and safe for sequential use
// over the lifetime of one session.
type SessionCipher struct {
	block cipher.Block
	iv    []byte
}

// NewSessionCipher creates a cipher from a 16-byte AES key and 16-byte IV
func NewSessionCipher(key, iv []byte) (*SessionCipher, error) {
	if len(key) != 16 {
		return nil, fmt.Errorf("session key must be 16 bytes, got %d", len(key))
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("session IV must be %d bytes, got %d", aes.BlockSize, len(iv))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	return &SessionCipher{
		block: block,
		iv:    append([]byte(nil), iv...),
	}, nil
}

// Encrypt pads the plaintext with PKCS#7, encrypts it with AES-128-CBC and
// returns the base64 encoding the passthrough envelope expects.
func (c *SessionCipher) Encrypt(plaintext []byte) string {
	padded := pkcs7Pad(plaintext, aes.BlockSize)

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(ciphertext, padded)

	return base64.StdEncoding.EncodeToString(ciphertext)
}

// Decrypt reverses Encrypt: base64 decode, AES-128-CBC decrypt, strip padding.
func (c *SessionCipher) Decrypt(encoded string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, NewParseError("payload is not valid base64", err)
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, NewParseError(
			fmt.Sprintf("ciphertext length %d is not a multiple of the block size", len(ciphertext)), nil)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return nil, NewParseError("invalid padding in decrypted payload", err)
	}

	return unpadded, nil
}

// pkcs7Pad appends PKCS#7 padding up to the next block boundary
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

// pkcs7Unpad strips and verifies PKCS#7 padding
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("data length %d is not a multiple of the block size", len(data))
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize {
		return nil, fmt.Errorf("invalid padding length %d", padLen)
	}

	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, fmt.Errorf("inconsistent padding bytes")
		}
	}

	return data[:len(data)-padLen], nil
}
