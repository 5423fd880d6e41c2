// Package cipher cifra el registro de credenciales antes de persistirlo.
// AES-256-GCM con clave derivada por scrypt desde un secreto local.
package cipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

const (
	saltSize  = 16
	nonceSize = 12
	keySize   = 32 // AES-256
)

// Parámetros scrypt recomendados para uso interactivo.
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var ErrCiphertextInvalido = errors.New("ciphertext inválido o alterado")

type Cipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

type scryptGCM struct {
	secret []byte
}

// NewFromSecret crea un Cipher a partir de un secreto local (por ejemplo una
// clave de máquina). Cada Encrypt usa salt y nonce aleatorios, por lo que dos
// cifrados del mismo texto nunca coinciden.
func NewFromSecret(secret string) (Cipher, error) {
	if secret == "" {
		return nil, errors.New("el secreto de cifrado no puede estar vacío")
	}
	return &scryptGCM{secret: []byte(secret)}, nil
}

// Encrypt retorna salt | nonce | sellado GCM.
func (c *scryptGCM) Encrypt(plaintext []byte) ([]byte, error) {

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generando salt: %w", err)
	}

	gcm, err := c.aead(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generando nonce: %w", err)
	}

	out := make([]byte, 0, saltSize+nonceSize+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

// Decrypt revierte Encrypt. Retorna ErrCiphertextInvalido si el contenido fue
// alterado o el secreto no corresponde.
func (c *scryptGCM) Decrypt(ciphertext []byte) ([]byte, error) {

	if len(ciphertext) < saltSize+nonceSize {
		return nil, ErrCiphertextInvalido
	}

	salt := ciphertext[:saltSize]
	nonce := ciphertext[saltSize : saltSize+nonceSize]
	sealed := ciphertext[saltSize+nonceSize:]

	gcm, err := c.aead(salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrCiphertextInvalido
	}
	return plaintext, nil
}

func (c *scryptGCM) aead(salt []byte) (cipher.AEAD, error) {

	key, err := scrypt.Key(c.secret, salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, fmt.Errorf("derivando clave: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("NewCipher: %w", err)
	}
	return cipher.NewGCMWithNonceSize(block, nonceSize)
}
