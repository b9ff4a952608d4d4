package tokenstore

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32
)

// KDFParams are the scrypt cost parameters.
type KDFParams struct {
	N, R, P int
}

var DefaultKDF = KDFParams{N: 1 << 15, R: 8, P: 1}

// Sealer encrypts records with secretbox under a key derived from a
// passphrase. Every record gets its own salt, so the sealed layout is
// salt || nonce || box, base64 encoded.
type Sealer struct {
	passphrase []byte
	kdf        KDFParams
}

func NewSealer(passphrase string, kdf KDFParams) (*Sealer, error) {
	if passphrase == "" {
		return nil, ErrPassphraseRequired
	}
	return &Sealer{passphrase: []byte(passphrase), kdf: kdf}, nil
}

func (s *Sealer) key(salt []byte) (*[keySize]byte, error) {
	derived, err := scrypt.Key(s.passphrase, salt, s.kdf.N, s.kdf.R, s.kdf.P, keySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	var key [keySize]byte
	copy(key[:], derived)
	return &key, nil
}

func (s *Sealer) Seal(plaintext []byte) (string, error) {
	var salt [saltSize]byte
	if _, err := io.ReadFull(rand.Reader, salt[:]); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}

	key, err := s.key(salt[:])
	if err != nil {
		return "", err
	}

	out := make([]byte, 0, saltSize+nonceSize+len(plaintext)+secretbox.Overhead)
	out = append(out, salt[:]...)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, plaintext, &nonce, key)

	return base64.StdEncoding.EncodeToString(out), nil
}

func (s *Sealer) Open(sealed string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if len(raw) < saltSize+nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("%w: record too short", ErrDecrypt)
	}

	salt := raw[:saltSize]
	var nonce [nonceSize]byte
	copy(nonce[:], raw[saltSize:saltSize+nonceSize])

	key, err := s.key(salt)
	if err != nil {
		return nil, err
	}

	plain, ok := secretbox.Open(nil, raw[saltSize+nonceSize:], &nonce, key)
	if !ok {
		return nil, ErrDecrypt
	}
	return plain, nil
}
