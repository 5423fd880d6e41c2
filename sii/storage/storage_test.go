package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileStore_RoundTrip(t *testing.T) {

	path := filepath.Join(t.TempDir(), "estado.json")
	s := NewFile(path)

	_, ok, err := s.Get("clave")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Set("clave", "valor"))

	v, ok, err := s.Get("clave")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "valor", v)

	// sobrevive a una nueva instancia sobre el mismo archivo
	s2 := NewFile(path)
	v, ok, err = s2.Get("clave")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "valor", v)
}

func TestFileStore_DeleteIdempotente(t *testing.T) {

	path := filepath.Join(t.TempDir(), "estado.json")
	s := NewFile(path)

	// borrar sin haber guardado nada no es error
	assert.NoError(t, s.Delete("nada"))

	assert.NoError(t, s.Set("clave", "valor"))
	assert.NoError(t, s.Delete("clave"))
	assert.NoError(t, s.Delete("clave"))

	_, ok, err := s.Get("clave")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_ArchivoCorrupto(t *testing.T) {

	path := filepath.Join(t.TempDir(), "estado.json")
	assert.NoError(t, os.WriteFile(path, []byte("esto no es json"), 0o600))

	s := NewFile(path)
	_, _, err := s.Get("clave")
	assert.Error(t, err)
}

func TestMemory(t *testing.T) {

	s := NewMemory()

	assert.NoError(t, s.Set("a", "1"))
	v, ok, err := s.Get("a")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	assert.NoError(t, s.Delete("a"))
	_, ok, _ = s.Get("a")
	assert.False(t, ok)
}
