// Package qr genera el enlace de verificación pública de un documento y su
// representación como código QR.
package qr

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/model"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/rut"
)

// GenerateVerificationLink construye el enlace:
// https://{host}/verificar/{rutEmisor}/{tipo}/{folio}/{Base64URL(SHA256(xml)) sin padding}
func GenerateVerificationLink(ambiente sii.Ambiente, doc *model.Documento, dteXML []byte) (string, error) {

	base, err := verificationBaseURL(ambiente.BaseURL())
	if err != nil {
		return "", err
	}

	emisor, err := rut.Format(doc.RutEmisor)
	if err != nil {
		return "", fmt.Errorf("rut emisor: %w", err)
	}

	hash := computeHashBase64URL(dteXML)

	return fmt.Sprintf("%s/verificar/%s/%d/%d/%s",
		strings.TrimRight(base, "/"), emisor, doc.TipoDocumento, doc.Folio, hash), nil
}

// GeneratePNG codifica el enlace como QR en PNG. size es el lado en pixeles.
func GeneratePNG(link string, size int) ([]byte, error) {
	return qrcode.Encode(link, qrcode.Medium, size)
}

// verificationBaseURL deja la URL base sin la ruta del API, apuntando a la
// consulta pública del mismo host.
func verificationBaseURL(base string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base URL must include scheme and host, got: %q", base)
	}

	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

func computeHashBase64URL(dteXML []byte) string {
	sum := sha256.Sum256(dteXML)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
