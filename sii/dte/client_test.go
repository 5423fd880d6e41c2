package dte

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/api"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/model"
)

type fakeSession struct {
	ses *model.Sesion
}

func (f *fakeSession) Current() *model.Sesion { return f.ses }

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func sesionDePrueba() *fakeSession {
	return &fakeSession{ses: &model.Sesion{
		Autenticada: true,
		RutEmpresa:  "76123456-0",
		Ambiente:    "certification",
		Token:       "token-de-prueba",
		Expira:      time.Now().Add(8 * time.Hour),
	}}
}

func documentoDePrueba(folio int) *model.Documento {
	return &model.Documento{
		Folio:         folio,
		TipoDocumento: model.TipoFacturaElectronica,
		RutEmisor:     "76123456-0",
		RutReceptor:   "11111111-1",
		FechaEmision:  time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		MontoNeto:     100000,
		MontoIVA:      19000,
		MontoTotal:    119000,
		Detalle: []model.DetalleItem{
			{Nombre: "Servicio contable", Cantidad: 1, PrecioUnitario: 100000, MontoItem: 100000},
		},
	}
}

// servidorSII servidor de prueba con la fuente de folios y la recepción de
// envíos. Cuenta los despachos para verificar que las validaciones cortan
// antes de llegar a la red.
func servidorSII(t *testing.T, rangos []model.RangoFolios, envios *atomic.Int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("GET /dte/caf/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.RangosResponse{Rangos: rangos})
	})

	mux.HandleFunc("POST /dte/envio", func(w http.ResponseWriter, r *http.Request) {
		envios.Add(1)

		req := &model.EnvioRequest{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(req))
		assert.NotEmpty(t, req.IDEnvio)
		assert.NotEmpty(t, req.HashSHA256)
		assert.Greater(t, req.TamanoBytes, 0)

		writeJSON(w, model.EnvioResponse{
			Exito:   true,
			TrackID: fmt.Sprintf("TRK-%d", req.Documento.Folio),
			Estado:  model.EstadoRecibido,
		})
	})

	mux.HandleFunc("GET /dte/envio/", func(w http.ResponseWriter, r *http.Request) {
		trackID := strings.TrimPrefix(r.URL.Path, "/dte/envio/")
		if !strings.HasPrefix(trackID, "TRK-") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, model.EstadoEnvio{
			TrackID: trackID,
			Estado:  model.EstadoProcesado,
			Glosa:   "DTE procesado sin reparos",
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func rangoVigente() []model.RangoFolios {
	return []model.RangoFolios{
		{TipoDocumento: 33, FolioDesde: 1000, FolioHasta: 1999, Vigente: true},
	}
}

func TestSubmit_Despacha(t *testing.T) {

	var envios atomic.Int32
	srv := servidorSII(t, rangoVigente(), &envios)
	servicio := NewService(api.New(srv.URL), sesionDePrueba())

	res := servicio.Submit(context.Background(), documentoDePrueba(1500))

	assert.True(t, res.Exito, "error: %s", res.Error)
	assert.Equal(t, "TRK-1500", res.TrackID)
	assert.Equal(t, model.EstadoRecibido, res.Estado)
	assert.Equal(t, int32(1), envios.Load())
}

func TestSubmit_BordesInclusive(t *testing.T) {

	var envios atomic.Int32
	srv := servidorSII(t, rangoVigente(), &envios)
	servicio := NewService(api.New(srv.URL), sesionDePrueba())

	assert.True(t, servicio.Submit(context.Background(), documentoDePrueba(1000)).Exito)
	assert.True(t, servicio.Submit(context.Background(), documentoDePrueba(1999)).Exito)
	assert.Equal(t, int32(2), envios.Load())
}

func TestSubmit_FolioFueraDeRango(t *testing.T) {

	var envios atomic.Int32
	srv := servidorSII(t, rangoVigente(), &envios)
	servicio := NewService(api.New(srv.URL), sesionDePrueba())

	for _, folio := range []int{999, 2000} {
		res := servicio.Submit(context.Background(), documentoDePrueba(folio))
		assert.False(t, res.Exito)
		assert.Contains(t, res.Error, "fuera del rango")
	}

	assert.Equal(t, int32(0), envios.Load(), "un folio fuera de rango no debe despacharse")
}

func TestSubmit_SinFolios(t *testing.T) {

	var envios atomic.Int32
	srv := servidorSII(t, nil, &envios)
	servicio := NewService(api.New(srv.URL), sesionDePrueba())

	res := servicio.Submit(context.Background(), documentoDePrueba(1500))

	assert.False(t, res.Exito)
	assert.Contains(t, res.Error, "sin folios")
	assert.Equal(t, int32(0), envios.Load())
}

func TestSubmit_IgnoraRangosNoVigentes(t *testing.T) {

	var envios atomic.Int32
	rangos := []model.RangoFolios{
		{TipoDocumento: 33, FolioDesde: 1, FolioHasta: 999, Vigente: false},
		{TipoDocumento: 33, FolioDesde: 1000, FolioHasta: 1999, Vigente: true},
	}
	srv := servidorSII(t, rangos, &envios)
	servicio := NewService(api.New(srv.URL), sesionDePrueba())

	// el primer rango disponible es el primero vigente, no el primero a secas
	res := servicio.Submit(context.Background(), documentoDePrueba(1500))
	assert.True(t, res.Exito)

	res = servicio.Submit(context.Background(), documentoDePrueba(500))
	assert.False(t, res.Exito)
	assert.Contains(t, res.Error, "fuera del rango")
}

func TestSubmit_SinSesion(t *testing.T) {

	var envios atomic.Int32
	srv := servidorSII(t, rangoVigente(), &envios)
	servicio := NewService(api.New(srv.URL), &fakeSession{})

	res := servicio.Submit(context.Background(), documentoDePrueba(1500))

	assert.False(t, res.Exito)
	assert.Contains(t, res.Error, "sesión")
	assert.Equal(t, int32(0), envios.Load())
}

func TestFolioRanges_VacioNoEsError(t *testing.T) {

	var envios atomic.Int32
	srv := servidorSII(t, nil, &envios)
	servicio := NewService(api.New(srv.URL), sesionDePrueba())

	rangos, err := servicio.FolioRanges(context.Background(), 33)
	assert.NoError(t, err)
	assert.Empty(t, rangos)
}

func TestFolioRanges_OrdenDelSII(t *testing.T) {

	var envios atomic.Int32
	rangos := []model.RangoFolios{
		{TipoDocumento: 33, FolioDesde: 5000, FolioHasta: 5999, Vigente: true},
		{TipoDocumento: 33, FolioDesde: 1000, FolioHasta: 1999, Vigente: true},
	}
	srv := servidorSII(t, rangos, &envios)
	servicio := NewService(api.New(srv.URL), sesionDePrueba())

	got, err := servicio.FolioRanges(context.Background(), 33)
	assert.NoError(t, err)
	assert.Equal(t, rangos, got, "se preserva el orden de la fuente")
}

func TestQueryStatus(t *testing.T) {

	var envios atomic.Int32
	srv := servidorSII(t, rangoVigente(), &envios)
	servicio := NewService(api.New(srv.URL), sesionDePrueba())

	estado, err := servicio.QueryStatus(context.Background(), "TRK-1500")
	assert.NoError(t, err)
	assert.Equal(t, model.EstadoProcesado, estado.Estado)
	assert.NotEmpty(t, estado.Glosa)

	// lectura repetible
	otra, err := servicio.QueryStatus(context.Background(), "TRK-1500")
	assert.NoError(t, err)
	assert.Equal(t, estado, otra)
}

func TestQueryStatus_TrackIDDesconocido(t *testing.T) {

	var envios atomic.Int32
	srv := servidorSII(t, rangoVigente(), &envios)
	servicio := NewService(api.New(srv.URL), sesionDePrueba())

	_, err := servicio.QueryStatus(context.Background(), "NO-EXISTE")
	assert.ErrorIs(t, err, sii.ErrTrackIDDesconocido)
}
