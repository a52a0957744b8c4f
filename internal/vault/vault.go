// Package vault encrypts user-supplied secrets at rest.
//
// Envelopes have the form hex(iv) + ":" + hex(ciphertext), produced with
// AES-256 in CBC mode and PKCS#7 padding. A fresh 16-byte IV is drawn for
// every call to Encrypt.
package vault

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/msomdec/shoplist/internal/domain"
)

// KeyHexLength is the required length of the hex-encoded key (256 bits).
const KeyHexLength = 64

const separator = ":"

// Vault holds the process-wide encryption key. It is safe for concurrent use.
type Vault struct {
	block cipher.Block
	rand  io.Reader
}

// New validates hexKey and returns a ready Vault. Callers are expected to
// treat an error as fatal at startup.
func New(hexKey string) (*Vault, error) {
	if len(hexKey) != KeyHexLength {
		return nil, fmt.Errorf("encryption key must be %d hex characters, got %d", KeyHexLength, len(hexKey))
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid hex: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	return &Vault{block: block, rand: rand.Reader}, nil
}

// Encrypt seals plaintext into an envelope. The empty string means "no
// secret" and is returned unchanged.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(v.rand, iv); err != nil {
		return "", fmt.Errorf("%w: generate iv: %v", domain.ErrCrypto, err)
	}

	padded := pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(v.block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + separator + hex.EncodeToString(ciphertext), nil
}

// Decrypt opens an envelope produced by Encrypt. The empty string passes
// through unchanged.
func (v *Vault) Decrypt(envelope string) (string, error) {
	if envelope == "" {
		return "", nil
	}

	ivHex, ctHex, ok := strings.Cut(envelope, separator)
	if !ok || strings.Contains(ctHex, separator) {
		return "", fmt.Errorf("%w: malformed envelope", domain.ErrCrypto)
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return "", fmt.Errorf("%w: malformed iv", domain.ErrCrypto)
	}
	ciphertext, err := hex.DecodeString(ctHex)
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: malformed ciphertext", domain.ErrCrypto)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(v.block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: bad padding", domain.ErrCrypto)
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("%w: bad padding", domain.ErrCrypto)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: bad padding", domain.ErrCrypto)
		}
	}
	return data[:len(data)-n], nil
}
