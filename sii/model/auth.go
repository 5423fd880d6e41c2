package model

// SemillaResponse semilla entregada por el SII como primer paso de la
// autenticación. La semilla se firma (o se acompaña de la clave) para
// canjear un token de sesión.
type SemillaResponse struct {
	Semilla   string `json:"semilla"`
	Timestamp string `json:"timestamp"`
}

// TokenRequest canje de semilla por token de sesión.
type TokenRequest struct {
	RutEmpresa string `json:"rutEmpresa"`
	RutUsuario string `json:"rutUsuario"`
	Clave      string `json:"clave,omitempty"`
	Semilla    string `json:"semilla"`
	Firma      string `json:"firma,omitempty"`
	Ambiente   string `json:"ambiente"`
}

// TokenResponse respuesta del canje de token.
type TokenResponse struct {
	Exito  bool   `json:"exito"`
	Token  string `json:"token,omitempty"`
	Codigo string `json:"codigo,omitempty"`
	Glosa  string `json:"glosa,omitempty"`
}

// RenovarResponse respuesta de la renovación de un token vigente.
type RenovarResponse struct {
	Exito bool   `json:"exito"`
	Token string `json:"token,omitempty"`
	Glosa string `json:"glosa,omitempty"`
}

// RangosResponse lista de rangos CAF que entrega la fuente de folios,
// en el orden original del SII.
type RangosResponse struct {
	Rangos []RangoFolios `json:"rangos"`
}

// EnvioRequest request de envío de un DTE. Incluye hash y tamaño del XML,
// además del contexto del rango de folios seleccionado.
type EnvioRequest struct {
	IDEnvio       string    `json:"idEnvio"`
	Documento     Documento `json:"documento"`
	XMLBase64     string    `json:"xmlBase64"`
	HashSHA256    string    `json:"hashSha256"`
	TamanoBytes   int       `json:"tamanoBytes"`
	RangoAsignado struct {
		FolioDesde int `json:"folioDesde"`
		FolioHasta int `json:"folioHasta"`
	} `json:"rangoAsignado"`
}

// EnvioResponse respuesta del endpoint de recepción de DTE.
type EnvioResponse struct {
	Exito   bool   `json:"exito"`
	TrackID string `json:"trackId,omitempty"`
	Estado  string `json:"estado,omitempty"`
	Glosa   string `json:"glosa,omitempty"`
}
