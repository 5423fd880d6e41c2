package model

import "time"

// RangoFolios rango de folios autorizado (CAF) para un tipo de documento.
// Inmutable una vez obtenido; solo se usa para validar que un folio caiga
// dentro de un rango vigente antes de intentar el envío.
type RangoFolios struct {
	TipoDocumento     int       `json:"tipoDocumento"`
	FolioDesde        int       `json:"folioDesde"`
	FolioHasta        int       `json:"folioHasta"`
	Vigente           bool      `json:"vigente"`
	RutEmisor         string    `json:"rutEmisor,omitempty"`
	RazonSocial       string    `json:"razonSocial,omitempty"`
	FechaAutorizacion time.Time `json:"fechaAutorizacion,omitempty"`
}

// Contiene indica si el folio cae dentro del rango, bordes inclusive.
func (r RangoFolios) Contiene(folio int) bool {
	return folio >= r.FolioDesde && folio <= r.FolioHasta
}
