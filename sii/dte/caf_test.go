package dte

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const cafDePrueba = `<AUTORIZACION>
  <CAF version="1.0">
    <DA>
      <RE>76123456-0</RE>
      <RS>COMERCIAL EJEMPLO SPA</RS>
      <TD>33</TD>
      <RNG><D>1000</D><H>1999</H></RNG>
      <FA>2026-03-01</FA>
      <RSAPK><M>0a1b2c</M><E>Aw==</E></RSAPK>
      <IDK>100</IDK>
    </DA>
    <FRMA algoritmo="SHA1withRSA">aG9sYQ==</FRMA>
  </CAF>
</AUTORIZACION>`

func TestParseCAF(t *testing.T) {

	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	rango, err := ParseCAF([]byte(cafDePrueba), now)
	assert.NoError(t, err)

	assert.Equal(t, 33, rango.TipoDocumento)
	assert.Equal(t, 1000, rango.FolioDesde)
	assert.Equal(t, 1999, rango.FolioHasta)
	assert.Equal(t, "76123456-0", rango.RutEmisor)
	assert.Equal(t, "COMERCIAL EJEMPLO SPA", rango.RazonSocial)
	assert.True(t, rango.Vigente)
}

func TestParseCAF_Caducado(t *testing.T) {

	// seis meses después de la autorización el CAF ya no sirve
	now := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	rango, err := ParseCAF([]byte(cafDePrueba), now)
	assert.NoError(t, err)
	assert.False(t, rango.Vigente)
}

func TestParseCAF_TodaviaNoAutorizado(t *testing.T) {

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rango, err := ParseCAF([]byte(cafDePrueba), now)
	assert.NoError(t, err)
	assert.False(t, rango.Vigente)
}

func TestParseCAF_Contiene(t *testing.T) {

	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	rango, err := ParseCAF([]byte(cafDePrueba), now)
	assert.NoError(t, err)

	// bordes inclusive
	assert.True(t, rango.Contiene(1000))
	assert.True(t, rango.Contiene(1999))
	assert.True(t, rango.Contiene(1500))
	assert.False(t, rango.Contiene(999))
	assert.False(t, rango.Contiene(2000))
}

func TestParseCAF_Malformado(t *testing.T) {

	now := time.Now()

	_, err := ParseCAF([]byte("<AUTORIZACION></AUTORIZACION>"), now)
	assert.Error(t, err)

	_, err = ParseCAF([]byte("esto no es xml"), now)
	assert.Error(t, err)

	invertido := `<AUTORIZACION><CAF><DA>
      <RE>76123456-0</RE><TD>33</TD>
      <RNG><D>2000</D><H>1000</H></RNG>
      <FA>2026-03-01</FA>
    </DA></CAF></AUTORIZACION>`
	_, err = ParseCAF([]byte(invertido), now)
	assert.Error(t, err)
}
