package sii

import (
	"errors"
	"fmt"
)

var (
	// ErrRutInvalido el RUT no pasa la validación de dígito verificador
	ErrRutInvalido = errors.New("rut inválido")
	// ErrClaveDebil la clave no cumple el largo mínimo exigido por el SII
	ErrClaveDebil = errors.New("clave demasiado corta o débil")
	// ErrNoAutorizado marcador genérico para 401
	ErrNoAutorizado = errors.New("sii: no autorizado")
	// ErrSinSesion la operación requiere una sesión activa
	ErrSinSesion = errors.New("no hay sesión activa")
	// ErrSinFolios no existe rango de folios autorizado para el tipo de documento
	ErrSinFolios = errors.New("sin folios disponibles para el tipo de documento")
	// ErrFolioFueraDeRango el folio solicitado está fuera del rango CAF autorizado
	ErrFolioFueraDeRango = errors.New("folio fuera del rango autorizado")
	// ErrTrackIDDesconocido el SII no reconoce el identificador de seguimiento
	ErrTrackIDDesconocido = errors.New("track id desconocido")
)

// AuthError falla de autenticación reportada por el SII, con glosa legible
// para mostrar al usuario.
type AuthError struct {
	Codigo string
	Glosa  string
}

func (e *AuthError) Error() string {
	if e.Codigo == "" {
		return fmt.Sprintf("autenticación rechazada: %s", e.Glosa)
	}
	return fmt.Sprintf("autenticación rechazada (%s): %s", e.Codigo, e.Glosa)
}

// StorageError falla de cifrado o persistencia de credenciales. Es el único
// error del almacén que se propaga al llamador sin convertirse en resultado.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("almacenamiento de credenciales: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
