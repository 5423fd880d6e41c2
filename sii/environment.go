package sii

import (
	"fmt"
	"strings"
)

// Ambiente identifica el entorno del SII contra el que opera el cliente.
type Ambiente int

const (
	Certificacion Ambiente = iota
	Produccion
)

func (a Ambiente) BaseURL() string {
	switch a {
	case Certificacion:
		return "https://maullin.sii.cl/api"
	case Produccion:
		return "https://palena.sii.cl/api"
	}
	panic("Invalid ambiente")
}

func (a Ambiente) Name() string {
	switch a {
	case Certificacion:
		return "certification"
	case Produccion:
		return "production"
	}
	panic("Invalid ambiente")
}

func (a *Ambiente) UnmarshalText(text []byte) error {
	val := strings.ToLower(strings.TrimSpace(string(text)))

	switch val {
	case "certification", "certificacion":
		*a = Certificacion
	case "production", "produccion":
		*a = Produccion
	default:
		return fmt.Errorf("invalid SII_AMBIENTE: %q (allowed: certification, production)", val)
	}
	return nil
}
