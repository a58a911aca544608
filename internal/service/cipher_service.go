package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"proxy-payout-gateway/internal/core/domain"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for deriving the vault key from the configured
// passphrase. Derivation happens once at construction; the key is never
// persisted.
const (
	vaultKDFTime    = 1
	vaultKDFMemory  = 64 * 1024 // 64MB
	vaultKDFThreads = 4
	vaultKeyLen     = 32
)

// Fixed application salt: the vault holds a single key derived from a single
// configured secret, so a per-derivation salt has nothing to disambiguate.
var vaultKDFSalt = []byte("payout-vault-kdf-v1")

// VaultCipher implements ports.SecretCipher using AES-256-GCM, so tampered
// or wrong-key ciphertext fails at decryption instead of yielding silently
// wrong key material.
type VaultCipher struct {
	aead cipher.AEAD
}

// NewVaultCipher derives a 32-byte key from the passphrase and prepares the
// AEAD. The passphrase must be non-empty.
func NewVaultCipher(passphrase string) (*VaultCipher, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("vault passphrase must not be empty")
	}

	key := argon2.IDKey([]byte(passphrase), vaultKDFSalt, vaultKDFTime, vaultKDFMemory, vaultKDFThreads, vaultKeyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return &VaultCipher{aead: aead}, nil
}

// Seal encrypts a plaintext signing key under a fresh random nonce.
func (c *VaultCipher) Seal(plaintext string) (domain.StoredSecret, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return domain.StoredSecret{}, fmt.Errorf("generating nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return domain.StoredSecret{
		Nonce:      hex.EncodeToString(nonce),
		Ciphertext: hex.EncodeToString(sealed),
	}, nil
}

// Open decrypts a sealed secret. Legacy (plaintext) records are the vault
// service's concern, not the cipher's.
func (c *VaultCipher) Open(secret domain.StoredSecret) (string, error) {
	if secret.Legacy {
		return "", fmt.Errorf("legacy secret is not encrypted")
	}

	nonce, err := hex.DecodeString(secret.Nonce)
	if err != nil {
		return "", fmt.Errorf("decoding nonce: %w", err)
	}
	if len(nonce) != c.aead.NonceSize() {
		return "", fmt.Errorf("nonce must be %d bytes, got %d", c.aead.NonceSize(), len(nonce))
	}

	sealed, err := hex.DecodeString(secret.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("decoding ciphertext: %w", err)
	}

	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("decrypting: %w", err)
	}
	return string(plaintext), nil
}
