package model

import "time"

// Tipos de DTE según la codificación del SII.
const (
	TipoFacturaElectronica       = 33
	TipoFacturaExentaElectronica = 34
	TipoBoletaElectronica        = 39
	TipoNotaCreditoElectronica   = 61
	TipoNotaDebitoElectronica    = 56
)

// DetalleItem línea de detalle de un documento.
type DetalleItem struct {
	Nombre         string `json:"nombre"`
	Cantidad       int    `json:"cantidad"`
	PrecioUnitario int64  `json:"precioUnitario"`
	MontoItem      int64  `json:"montoItem"`
}

// Documento DTE listo para envío. Inmutable una vez despachado.
type Documento struct {
	Folio         int           `json:"folio"`
	TipoDocumento int           `json:"tipoDocumento"`
	RutEmisor     string        `json:"rutEmisor"`
	RutReceptor   string        `json:"rutReceptor"`
	FechaEmision  time.Time     `json:"fechaEmision"`
	MontoNeto     int64         `json:"montoNeto"`
	MontoIVA      int64         `json:"montoIVA"`
	MontoTotal    int64         `json:"montoTotal"`
	Descripcion   string        `json:"descripcion,omitempty"`
	Detalle       []DetalleItem `json:"detalle,omitempty"`
}

// Estados de procesamiento que reporta el SII para un envío.
const (
	EstadoRecibido    = "REC" // recibido, en cola de procesamiento
	EstadoProcesado   = "EPR" // procesado sin reparos
	EstadoReparo      = "RLV" // aceptado con reparos leves
	EstadoRechazado   = "RCH" // rechazado
	EstadoDesconocido = "DESCONOCIDO"
)

// ResultadoEnvio resultado de un intento de envío. Se produce exactamente uno
// por intento; el TrackID permite consultar el estado después.
type ResultadoEnvio struct {
	Exito   bool   `json:"exito"`
	TrackID string `json:"trackId,omitempty"`
	Estado  string `json:"estado,omitempty"`
	Error   string `json:"error,omitempty"`
}

// EstadoEnvio estado de procesamiento consultado por track id. Lectura
// repetible, sin efectos sobre el envío original.
type EstadoEnvio struct {
	TrackID string `json:"trackId"`
	Estado  string `json:"estado"`
	Glosa   string `json:"glosa,omitempty"`
}
