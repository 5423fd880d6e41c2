// Package session maneja la única sesión activa contra el SII: expiración a
// 8 horas, chequeo perezoso en cada lectura y renovación proactiva periódica.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/auth"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/credentials"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/model"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/rut"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/storage"
)

var logger = logrus.WithField("component", "sii.session")

const (
	// TTL duración de un token del SII desde su emisión o renovación.
	TTL = 8 * time.Hour
	// RenewThreshold margen bajo el cual el chequeo periódico renueva.
	RenewThreshold = 30 * time.Minute
	// CheckInterval frecuencia del chequeo periódico de expiración.
	CheckInterval = 60 * time.Second

	// MinClaveLen largo mínimo de clave que acepta el SII.
	MinClaveLen = 8

	// StorageKey entrada de la sesión serializada en el almacenamiento local.
	StorageKey = "sii.sesion"
)

// Manager posee el objeto Sesion y su ciclo de vida. Constrúyase una sola vez
// al partir la aplicación e inyéctese a los consumidores.
type Manager struct {
	auth  auth.Exchange
	creds *credentials.Store
	kv    storage.Store
	clock clockwork.Clock

	mu     sync.Mutex
	actual *model.Sesion
}

type Option func(*Manager)

// WithClock reemplaza el reloj; lo usan las pruebas de expiración.
func WithClock(c clockwork.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithCredentialStore habilita la persistencia opcional de credenciales
// durante Authenticate.
func WithCredentialStore(s *credentials.Store) Option {
	return func(m *Manager) { m.creds = s }
}

func New(exchange auth.Exchange, kv storage.Store, opts ...Option) *Manager {
	m := &Manager{
		auth:  exchange,
		kv:    kv,
		clock: clockwork.NewRealClock(),
	}
	for _, o := range opts {
		o(m)
	}
	m.restore()
	return m
}

// Authenticate valida el formato de ambos RUT antes de cualquier llamada de
// red; con formato inválido falla de inmediato sin tocar el intercambio
// externo. Con éxito construye la sesión con expiración now+8h, la persiste
// y opcionalmente guarda las credenciales.
func (m *Manager) Authenticate(ctx context.Context, creds *model.Credenciales, recordar bool) (*model.Sesion, error) {

	if err := rut.Validate(creds.RutEmpresa); err != nil {
		return nil, fmt.Errorf("%w: rut empresa", sii.ErrRutInvalido)
	}
	if err := rut.Validate(creds.RutUsuario); err != nil {
		return nil, fmt.Errorf("%w: rut usuario", sii.ErrRutInvalido)
	}
	if creds.CertificadoRef == "" && len(creds.Clave) < MinClaveLen {
		return nil, sii.ErrClaveDebil
	}

	token, err := m.auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	now := m.clock.Now()
	ses := &model.Sesion{
		Autenticada:     true,
		RutEmpresa:      rut.Normalize(creds.RutEmpresa),
		RutUsuario:      rut.Normalize(creds.RutUsuario),
		Ambiente:        creds.Ambiente,
		Token:           token,
		Expira:          now.Add(TTL),
		UltimaActividad: now,
	}

	m.mu.Lock()
	m.actual = ses
	m.persistLocked()
	m.mu.Unlock()

	if recordar && m.creds != nil {
		c := *creds
		c.Activa = true
		c.UltimaValidada = now
		if err := m.creds.Save(&c); err != nil {
			// la autenticación ya fue exitosa; la falla de persistencia
			// no la revierte
			logger.WithError(err).Warn("no se pudieron guardar las credenciales")
		}
	}

	logger.WithFields(logrus.Fields{
		"rutEmpresa": ses.RutEmpresa,
		"ambiente":   ses.Ambiente,
		"expira":     ses.Expira,
	}).Info("sesión iniciada")
	return ses, nil
}

// Current retorna la sesión activa, o nil si no hay o si ya expiró. La
// expiración se evalúa en cada lectura; detectarla desmonta la sesión.
func (m *Manager) Current() *model.Sesion {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.actual == nil {
		return nil
	}
	if !m.actual.Vigente(m.clock.Now()) {
		logger.Info("sesión expirada, desmontando")
		m.teardownLocked()
		return nil
	}
	return m.actual
}

// Renew renueva la sesión vigente. Sin sesión retorna false sin llamada de
// red. Una renovación fallida deja la sesión anterior intacta; el chequeo
// periódico volverá a intentar.
func (m *Manager) Renew(ctx context.Context) bool {

	m.mu.Lock()
	if m.actual == nil || !m.actual.Vigente(m.clock.Now()) {
		m.mu.Unlock()
		return false
	}
	token := m.actual.Token
	m.mu.Unlock()

	nuevo, err := m.auth.Renew(ctx, token)
	if err != nil {
		logger.WithError(err).Warn("renovación de sesión fallida")
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.actual == nil || m.actual.Token != token {
		// la sesión cambió mientras renovábamos; no pisar
		return false
	}
	now := m.clock.Now()
	m.actual.Token = nuevo
	m.actual.Expira = now.Add(TTL)
	m.actual.UltimaActividad = now
	m.persistLocked()

	logger.WithField("expira", m.actual.Expira).Debug("sesión renovada")
	return true
}

// Logout desmonta la sesión en memoria y borra el registro persistido.
// Idempotente; el cierre remoto es best effort.
func (m *Manager) Logout(ctx context.Context) {

	m.mu.Lock()
	ses := m.actual
	m.teardownLocked()
	m.mu.Unlock()

	if ses == nil {
		return
	}
	if err := m.auth.Logout(ctx, ses.Token); err != nil {
		logger.WithError(err).Debug("cierre remoto de sesión falló")
	}
	logger.Info("sesión cerrada")
}

// Run ejecuta el chequeo periódico de expiración hasta que ctx se cancele:
// bajo el umbral renueva, en cero desmonta. El chequeo perezoso de Current
// mantiene la corrección aunque este loop no esté corriendo.
func (m *Manager) Run(ctx context.Context) {

	ticker := m.clock.NewTicker(CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			m.check(ctx)
		}
	}
}

func (m *Manager) check(ctx context.Context) {

	m.mu.Lock()
	if m.actual == nil {
		m.mu.Unlock()
		return
	}
	restante := m.actual.TiempoRestante(m.clock.Now())
	if restante <= 0 {
		logger.Info("sesión expirada durante el chequeo periódico")
		m.teardownLocked()
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	if restante < RenewThreshold {
		logger.WithField("restante", restante).Debug("renovación proactiva")
		m.Renew(ctx)
	}
}

// restore recarga una sesión persistida de una ejecución anterior. Una sesión
// ya expirada se descarta de inmediato.
func (m *Manager) restore() {

	value, ok, err := m.kv.Get(StorageKey)
	if err != nil || !ok {
		return
	}

	ses := &model.Sesion{}
	if err := json.Unmarshal([]byte(value), ses); err != nil {
		logger.WithError(err).Warn("sesión persistida ilegible, descartando")
		_ = m.kv.Delete(StorageKey)
		return
	}
	if !ses.Vigente(m.clock.Now()) {
		_ = m.kv.Delete(StorageKey)
		return
	}

	m.actual = ses
	logger.WithField("expira", ses.Expira).Debug("sesión restaurada")
}

func (m *Manager) persistLocked() {
	b, err := json.Marshal(m.actual)
	if err != nil {
		logger.WithError(err).Warn("no se pudo serializar la sesión")
		return
	}
	if err := m.kv.Set(StorageKey, string(b)); err != nil {
		logger.WithError(err).Warn("no se pudo persistir la sesión")
	}
}

func (m *Manager) teardownLocked() {
	m.actual = nil
	if err := m.kv.Delete(StorageKey); err != nil {
		logger.WithError(err).Warn("no se pudo borrar la sesión persistida")
	}
}
