package model

import "time"

// Credenciales datos de acceso al SII de una empresa. Se persisten siempre
// cifradas; nunca deben aparecer en logs ni en mensajes de error.
type Credenciales struct {
	RutEmpresa      string    `json:"rutEmpresa"`
	RutUsuario      string    `json:"rutUsuario"`
	Clave           string    `json:"clave"`
	CertificadoRef  string    `json:"certificadoRef,omitempty"`
	PinCertificado  string    `json:"pinCertificado,omitempty"`
	Ambiente        string    `json:"ambiente"`
	Activa          bool      `json:"activa"`
	FechaRegistro   time.Time `json:"fechaRegistro"`
	UltimaValidada  time.Time `json:"ultimaValidada,omitempty"`
}
