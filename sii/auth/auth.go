// Package auth implementa el intercambio de autenticación contra el SII:
// obtención de semilla y canje por token de sesión.
package auth

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/api"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/cert"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/model"
)

var logger = logrus.WithField("component", "sii.auth")

// Exchange colaborador de autenticación que consume session.Manager.
type Exchange interface {
	Login(ctx context.Context, creds *model.Credenciales) (string, error)
	Renew(ctx context.Context, token string) (string, error)
	Logout(ctx context.Context, token string) error
}

// Facade fachada de autorización sobre el cliente REST.
type Facade struct {
	client api.Client
}

func NewFacade(client api.Client) *Facade {
	return &Facade{client: client}
}

// Semilla pide la semilla de autenticación al SII.
func (f *Facade) Semilla(ctx context.Context) (*model.SemillaResponse, error) {

	logger.Debug("solicitando semilla")

	res := &model.SemillaResponse{}
	if err := f.client.PostJsonNoAuth(ctx, "/auth/semilla", nil, res); err != nil {
		return nil, fmt.Errorf("semilla: %w", err)
	}
	return res, nil
}

// Login canjea la semilla por un token de sesión. Si las credenciales
// referencian un certificado digital, la semilla se firma con él; si no,
// el canje va con la clave del usuario.
func (f *Facade) Login(ctx context.Context, creds *model.Credenciales) (string, error) {

	semilla, err := f.Semilla(ctx)
	if err != nil {
		return "", err
	}

	req := model.TokenRequest{
		RutEmpresa: creds.RutEmpresa,
		RutUsuario: creds.RutUsuario,
		Semilla:    semilla.Semilla,
		Ambiente:   creds.Ambiente,
	}

	if creds.CertificadoRef != "" {
		signer, err := cert.LoadSignerFromFile(creds.CertificadoRef, []byte(creds.PinCertificado))
		if err != nil {
			return "", fmt.Errorf("certificado digital: %w", err)
		}
		firma, err := cert.FirmarSemilla(signer, semilla.Semilla)
		if err != nil {
			return "", err
		}
		req.Firma = firma
	} else {
		req.Clave = creds.Clave
	}

	res := &model.TokenResponse{}
	if err := f.client.PostJsonNoAuth(ctx, "/auth/token", req, res); err != nil {
		return "", fmt.Errorf("canje de token: %w", err)
	}

	if !res.Exito || res.Token == "" {
		return "", &sii.AuthError{Codigo: res.Codigo, Glosa: res.Glosa}
	}

	logger.WithField("rutUsuario", creds.RutUsuario).Debug("token de sesión obtenido")
	return res.Token, nil
}

// Renew renueva un token vigente. Retorna el token nuevo.
func (f *Facade) Renew(ctx context.Context, token string) (string, error) {

	res := &model.RenovarResponse{}
	if err := f.client.PostJson(ctx, "/auth/renovar", token, nil, res); err != nil {
		return "", fmt.Errorf("renovación: %w", err)
	}
	if !res.Exito || res.Token == "" {
		return "", fmt.Errorf("renovación rechazada: %s", res.Glosa)
	}
	return res.Token, nil
}

// Logout cierra la sesión en el SII. El manager lo trata como best effort.
func (f *Facade) Logout(ctx context.Context, token string) error {
	return f.client.PostJson(ctx, "/auth/cerrar", token, nil, nil)
}
