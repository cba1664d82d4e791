package checkpoint

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 32
	keySize    = 32
	iterations = 100000
)

// encryptedEnvelope is the on-disk structure of an encrypted checkpoint.
// The envelope itself stays plain JSON so inspect tooling can at least
// tell an encrypted checkpoint from a corrupt one.
type encryptedEnvelope struct {
	Salt      string `json:"salt"`
	Encrypted string `json:"encrypted"`
	Version   int    `json:"version"`
}

// EncryptedCodec wraps another codec and encrypts its output with AES-GCM,
// deriving the key from a passphrase via PBKDF2. Opt-in for snapshots that
// contain credentials or other sensitive progress data.
type EncryptedCodec struct {
	inner      Codec
	passphrase string
}

// NewEncryptedCodec creates an encrypting codec around inner. If inner is
// nil the default JSONCodec is used.
func NewEncryptedCodec(inner Codec, passphrase string) (*EncryptedCodec, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase is required")
	}
	if inner == nil {
		inner = JSONCodec{}
	}
	return &EncryptedCodec{inner: inner, passphrase: passphrase}, nil
}

// Marshal serializes v with the inner codec and encrypts the result
func (c *EncryptedCodec) Marshal(v interface{}) ([]byte, error) {
	plaintext, err := c.inner.Marshal(v)
	if err != nil {
		return nil, err
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(c.passphrase), salt, iterations, keySize, sha256.New)

	encrypted, err := encrypt(plaintext, key)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt snapshot: %w", err)
	}

	envelope := encryptedEnvelope{
		Salt:      base64.StdEncoding.EncodeToString(salt),
		Encrypted: base64.StdEncoding.EncodeToString(encrypted),
		Version:   1,
	}

	return json.MarshalIndent(envelope, "", "  ")
}

// Unmarshal decrypts data and deserializes it with the inner codec
func (c *EncryptedCodec) Unmarshal(data []byte, v interface{}) error {
	var envelope encryptedEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to parse envelope: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(envelope.Salt)
	if err != nil {
		return fmt.Errorf("failed to decode salt: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(envelope.Encrypted)
	if err != nil {
		return fmt.Errorf("failed to decode encrypted data: %w", err)
	}

	key := pbkdf2.Key([]byte(c.passphrase), salt, iterations, keySize, sha256.New)

	plaintext, err := decrypt(ciphertext, key)
	if err != nil {
		return fmt.Errorf("failed to decrypt snapshot: %w", err)
	}

	return c.inner.Unmarshal(plaintext, v)
}

// encrypt encrypts data using AES-GCM, prefixing the nonce
func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// decrypt decrypts AES-GCM data with the nonce prefix
func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
