// Package cert carga el certificado digital del contribuyente para firmar
// la semilla de autenticación.
package cert

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/youmark/pkcs8"
)

// LoadSignerFromFile carga la clave privada del certificado desde un PEM
// PKCS#8 cifrado, usando el PIN del certificado como contraseña.
func LoadSignerFromFile(path string, pin []byte) (crypto.Signer, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	return LoadSignerFromPEM(b, pin)
}

// LoadSignerFromPEM carga el primer bloque ENCRYPTED PRIVATE KEY encontrado.
func LoadSignerFromPEM(pemBytes []byte, pin []byte) (crypto.Signer, error) {
	if len(pin) == 0 {
		return nil, errors.New("se requiere el PIN del certificado")
	}

	for len(pemBytes) > 0 {
		var block *pem.Block
		block, pemBytes = pem.Decode(pemBytes)
		if block == nil {
			break
		}
		if block.Type != "ENCRYPTED PRIVATE KEY" {
			continue
		}

		keyAny, err := pkcs8.ParsePKCS8PrivateKey(block.Bytes, pin)
		if err != nil {
			return nil, fmt.Errorf("decrypt PKCS#8 encrypted private key: %w", err)
		}

		switch k := keyAny.(type) {
		case *rsa.PrivateKey:
			return k, nil
		case *ecdsa.PrivateKey:
			return k, nil
		default:
			return nil, fmt.Errorf("unsupported key type in PKCS#8: %T (expected RSA or ECDSA)", keyAny)
		}
	}

	return nil, errors.New("no ENCRYPTED PRIVATE KEY block found in PEM")
}

// FirmarSemilla firma SHA-256(semilla) y retorna la firma en base64 estándar,
// lista para el canje de token.
func FirmarSemilla(signer crypto.Signer, semilla string) (string, error) {

	digest := sha256.Sum256([]byte(semilla))

	sig, err := signer.Sign(rand.Reader, digest[:], crypto.SHA256)
	if err != nil {
		return "", fmt.Errorf("firmando semilla: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}
