// Package credentials persiste las credenciales del SII cifradas en el
// almacenamiento local, independiente del estado de la sesión.
package credentials

import (
	"encoding/base64"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/cipher"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/model"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/storage"
)

var logger = logrus.WithField("component", "sii.credentials")

// StorageKey entrada única del registro cifrado en el almacenamiento local.
const StorageKey = "sii.credenciales"

type Store struct {
	cipher cipher.Cipher
	kv     storage.Store
}

func NewStore(c cipher.Cipher, kv storage.Store) *Store {
	return &Store{cipher: c, kv: kv}
}

// Save cifra el registro completo y lo escribe. Una falla de cifrado o de
// escritura se propaga como *sii.StorageError; es la única condición del
// almacén que el llamador debe manejar explícitamente.
func (s *Store) Save(creds *model.Credenciales) error {

	plain, err := json.Marshal(creds)
	if err != nil {
		return &sii.StorageError{Op: "serializar", Err: err}
	}

	encrypted, err := s.cipher.Encrypt(plain)
	if err != nil {
		return &sii.StorageError{Op: "cifrar", Err: err}
	}

	value := base64.StdEncoding.EncodeToString(encrypted)
	if err := s.kv.Set(StorageKey, value); err != nil {
		return &sii.StorageError{Op: "escribir", Err: err}
	}

	// nunca la clave ni el PIN
	logger.WithFields(logrus.Fields{
		"rutEmpresa": creds.RutEmpresa,
		"ambiente":   creds.Ambiente,
	}).Debug("credenciales guardadas")
	return nil
}

// Load lee y descifra el registro. Retorna nil si no hay nada guardado; una
// falla de descifrado también retorna nil, dejando registro en el log, porque
// la ausencia de credenciales es un estado esperado para el llamador.
func (s *Store) Load() *model.Credenciales {

	value, ok, err := s.kv.Get(StorageKey)
	if err != nil {
		logger.WithError(err).Warn("no se pudo leer el registro de credenciales")
		return nil
	}
	if !ok {
		return nil
	}

	encrypted, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		logger.WithError(err).Warn("registro de credenciales corrupto")
		return nil
	}

	plain, err := s.cipher.Decrypt(encrypted)
	if err != nil {
		logger.WithError(err).Warn("no se pudo descifrar el registro de credenciales")
		return nil
	}

	creds := &model.Credenciales{}
	if err := json.Unmarshal(plain, creds); err != nil {
		logger.WithError(err).Warn("registro de credenciales ilegible")
		return nil
	}
	return creds
}

// Has indica si existe un registro guardado, sin intentar descifrarlo.
func (s *Store) Has() bool {
	_, ok, err := s.kv.Get(StorageKey)
	return err == nil && ok
}

// Clear elimina el registro. Idempotente.
func (s *Store) Clear() error {
	return s.kv.Delete(StorageKey)
}
