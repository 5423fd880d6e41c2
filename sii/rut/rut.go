// Package rut valida y normaliza el RUT chileno (módulo 11).
package rut

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalido = errors.New("rut inválido")

var cleanRe = regexp.MustCompile(`[.\-\s]+`)

// Normalize quita puntos, guiones y espacios; la K queda en mayúscula.
// No valida el dígito verificador.
func Normalize(rut string) string {
	return strings.ToUpper(cleanRe.ReplaceAllString(rut, ""))
}

// Validate verifica formato y dígito verificador. Acepta "76123456-0",
// "76.123.456-0" o "761234560".
func Validate(rut string) error {
	clean := Normalize(rut)
	if len(clean) < 8 || len(clean) > 9 {
		return fmt.Errorf("%w: largo inesperado en %q", ErrInvalido, rut)
	}

	body := clean[:len(clean)-1]
	dv := clean[len(clean)-1:]

	for _, r := range body {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: cuerpo no numérico en %q", ErrInvalido, rut)
		}
	}

	if CheckDigit(body) != dv {
		return fmt.Errorf("%w: dígito verificador no coincide en %q", ErrInvalido, rut)
	}
	return nil
}

// CheckDigit calcula el dígito verificador módulo 11 para un cuerpo numérico.
// Retorna "0"-"9" o "K".
func CheckDigit(body string) string {
	sum := 0
	factor := 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}

	switch res := 11 - sum%11; res {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return fmt.Sprintf("%d", res)
	}
}

// Format retorna el RUT normalizado con guion: "76123456-0".
func Format(rut string) (string, error) {
	if err := Validate(rut); err != nil {
		return "", err
	}
	clean := Normalize(rut)
	return clean[:len(clean)-1] + "-" + clean[len(clean)-1:], nil
}
