package sqlite

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/mvr/thenumber/internal/domain"
	"github.com/mvr/thenumber/internal/infrastructure/metrics"
)

const keySize = 32 // AES-256

// FieldCipher encrypts individual column values with AES-GCM before they
// reach storage and authenticates them on the way back. The key is supplied
// externally; there is no generated or default fallback key.
type FieldCipher struct {
	aead     cipher.AEAD
	indexKey []byte
	metrics  *metrics.Metrics
}

// NewFieldCipher builds a cipher from a base64-encoded 32-byte key.
func NewFieldCipher(encodedKey string, m *metrics.Metrics) (*FieldCipher, error) {
	if encodedKey == "" {
		return nil, domain.ErrKeyMissing
	}

	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: not base64", domain.ErrKeyMissing)
	}

	if len(key) != keySize {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", domain.ErrKeyMissing, keySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKeyMissing, err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKeyMissing, err)
	}

	// Separate key for the blind index so index values reveal nothing about
	// the encryption key.
	indexKey := sha256.Sum256(append([]byte("blind-index:"), key...))

	return &FieldCipher{
		aead:     aead,
		indexKey: indexKey[:],
		metrics:  m,
	}, nil
}

// Encrypt seals a plaintext value into base64(nonce || ciphertext).
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a sealed value. Any tampered, corrupted or wrong-key
// ciphertext fails authentication and surfaces as a decryption error,
// never as garbled plaintext.
func (c *FieldCipher) Decrypt(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", c.decryptFailure("malformed ciphertext")
	}

	if len(sealed) < c.aead.NonceSize() {
		return "", c.decryptFailure("ciphertext too short")
	}

	nonce, ciphertext := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", c.decryptFailure("authentication failed")
	}

	return string(plaintext), nil
}

func (c *FieldCipher) decryptFailure(reason string) error {
	if c.metrics != nil {
		c.metrics.DecryptFailures.Inc()
	}
	return fmt.Errorf("%w: %s", domain.ErrDecryptFailed, reason)
}

// BlindIndex returns a keyed hash of a value so encrypted columns stay
// filterable through an index without storing plaintext.
func (c *FieldCipher) BlindIndex(value string) string {
	mac := hmac.New(sha256.New, c.indexKey)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

// MaskKey renders a key for confirmation output. Only a short prefix and
// suffix are ever shown.
func MaskKey(encodedKey string) string {
	if len(encodedKey) <= 8 {
		return "****"
	}
	return encodedKey[:4] + "..." + encodedKey[len(encodedKey)-4:]
}
