package model

import "time"

// Sesion sesión activa contra el SII. Existe a lo más una por instancia del
// cliente; la maneja exclusivamente session.Manager.
type Sesion struct {
	Autenticada     bool      `json:"autenticada"`
	RutEmpresa      string    `json:"rutEmpresa"`
	RutUsuario      string    `json:"rutUsuario"`
	Ambiente        string    `json:"ambiente"`
	Token           string    `json:"token"`
	Expira          time.Time `json:"expira"`
	UltimaActividad time.Time `json:"ultimaActividad"`
}

// Vigente indica si la sesión sigue siendo válida al instante dado.
func (s *Sesion) Vigente(now time.Time) bool {
	return s != nil && s.Autenticada && now.Before(s.Expira)
}

// TiempoRestante retorna cuánto falta para que expire la sesión. Puede ser
// negativo si ya expiró.
func (s *Sesion) TiempoRestante(now time.Time) time.Duration {
	return s.Expira.Sub(now)
}
