// Package dte valida y despacha documentos tributarios electrónicos, y
// consulta su estado de procesamiento por track id.
package dte

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/api"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/model"
)

var logger = logrus.WithField("component", "sii.dte")

// SessionSource entrega la sesión activa para autorizar las llamadas.
// session.Manager lo satisface.
type SessionSource interface {
	Current() *model.Sesion
}

type Service interface {
	FolioRanges(ctx context.Context, tipoDocumento int) ([]model.RangoFolios, error)
	Submit(ctx context.Context, doc *model.Documento) *model.ResultadoEnvio
	QueryStatus(ctx context.Context, trackID string) (*model.EstadoEnvio, error)
}

type service struct {
	client  api.Client
	session SessionSource
}

func NewService(client api.Client, session SessionSource) Service {
	return &service{client: client, session: session}
}

// FolioRanges obtiene los rangos CAF vigentes para un tipo de documento, en
// el orden en que los entrega el SII. Lista vacía no es error: significa que
// no hay folios disponibles.
func (s *service) FolioRanges(ctx context.Context, tipoDocumento int) ([]model.RangoFolios, error) {

	ses := s.session.Current()
	if ses == nil {
		return nil, sii.ErrSinSesion
	}

	res := &model.RangosResponse{}
	endpoint := fmt.Sprintf("/dte/caf/%d", tipoDocumento)
	if err := s.client.GetJson(ctx, endpoint, ses.Token, res); err != nil {
		if esNoAutorizado(err) {
			return nil, fmt.Errorf("%w: consultando folios", sii.ErrNoAutorizado)
		}
		return nil, fmt.Errorf("consultando folios: %w", err)
	}
	return res.Rangos, nil
}

// esNoAutorizado detecta un 401 del SII, señal de token inválido o caducado.
func esNoAutorizado(err error) bool {
	var reqErr *api.RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusUnauthorized
}

// Submit valida el folio contra el primer rango vigente disponible y despacha
// el documento. Toda falla se reporta en el resultado, nunca como pánico, de
// modo que la capa de presentación pueda mostrarla en línea.
func (s *service) Submit(ctx context.Context, doc *model.Documento) *model.ResultadoEnvio {

	rangos, err := s.FolioRanges(ctx, doc.TipoDocumento)
	if err != nil {
		return fallo(err)
	}

	var vigentes []model.RangoFolios
	for _, r := range rangos {
		if r.Vigente {
			vigentes = append(vigentes, r)
		}
	}
	if len(vigentes) == 0 {
		return fallo(fmt.Errorf("%w: tipo %d", sii.ErrSinFolios, doc.TipoDocumento))
	}

	// se toma el primer rango disponible; bordes inclusive
	rango := vigentes[0]
	if !rango.Contiene(doc.Folio) {
		return fallo(fmt.Errorf("%w: folio %d no está en [%d, %d]",
			sii.ErrFolioFueraDeRango, doc.Folio, rango.FolioDesde, rango.FolioHasta))
	}

	xml, err := BuildXML(doc)
	if err != nil {
		return fallo(fmt.Errorf("construyendo XML: %w", err))
	}

	digest := sha256.Sum256(xml)
	req := &model.EnvioRequest{
		IDEnvio:     uuid.NewString(),
		Documento:   *doc,
		XMLBase64:   base64.StdEncoding.EncodeToString(xml),
		HashSHA256:  base64.StdEncoding.EncodeToString(digest[:]),
		TamanoBytes: len(xml),
	}
	req.RangoAsignado.FolioDesde = rango.FolioDesde
	req.RangoAsignado.FolioHasta = rango.FolioHasta

	ses := s.session.Current()
	if ses == nil {
		return fallo(sii.ErrSinSesion)
	}

	res := &model.EnvioResponse{}
	if err := s.client.PostJson(ctx, "/dte/envio", ses.Token, req, res); err != nil {
		return fallo(fmt.Errorf("enviando documento: %w", err))
	}
	if !res.Exito || res.TrackID == "" {
		return &model.ResultadoEnvio{
			Exito:  false,
			Estado: model.EstadoRechazado,
			Error:  res.Glosa,
		}
	}

	estado := res.Estado
	if estado == "" {
		estado = model.EstadoRecibido
	}

	logger.WithFields(logrus.Fields{
		"idEnvio": req.IDEnvio,
		"folio":   doc.Folio,
		"tipo":    doc.TipoDocumento,
		"trackId": res.TrackID,
	}).Info("documento despachado")

	return &model.ResultadoEnvio{
		Exito:   true,
		TrackID: res.TrackID,
		Estado:  estado,
	}
}

// QueryStatus consulta el estado de procesamiento por track id. Lectura pura,
// repetible, sin efectos sobre el envío original.
func (s *service) QueryStatus(ctx context.Context, trackID string) (*model.EstadoEnvio, error) {

	ses := s.session.Current()
	if ses == nil {
		return nil, sii.ErrSinSesion
	}

	res := &model.EstadoEnvio{}
	endpoint := fmt.Sprintf("/dte/envio/%s", trackID)
	if err := s.client.GetJson(ctx, endpoint, ses.Token, res); err != nil {
		var reqErr *api.RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", sii.ErrTrackIDDesconocido, trackID)
		}
		if esNoAutorizado(err) {
			return nil, fmt.Errorf("%w: consultando estado", sii.ErrNoAutorizado)
		}
		return nil, fmt.Errorf("consultando estado: %w", err)
	}
	return res, nil
}

func fallo(err error) *model.ResultadoEnvio {
	logger.WithError(err).Warn("envío no despachado")
	return &model.ResultadoEnvio{Exito: false, Error: err.Error()}
}
