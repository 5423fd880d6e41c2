package dte

import (
	"time"

	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/dte/tpl"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/model"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/util"
)

type detalleTpl struct {
	NroLinea       int
	Nombre         string
	Cantidad       int
	PrecioUnitario int64
	MontoItem      int64
}

type documentoTpl struct {
	Folio         int
	TipoDocumento int
	RutEmisor     string
	RutReceptor   string
	FechaEmision  time.Time
	MontoNeto     int64
	MontoIVA      int64
	MontoTotal    int64
	Detalle       []detalleTpl
}

// BuildXML arma el XML del DTE a partir de la plantilla embebida. Las líneas
// de detalle se numeran desde 1, como exige el esquema del SII.
func BuildXML(doc *model.Documento) ([]byte, error) {

	m := documentoTpl{
		Folio:         doc.Folio,
		TipoDocumento: doc.TipoDocumento,
		RutEmisor:     doc.RutEmisor,
		RutReceptor:   doc.RutReceptor,
		FechaEmision:  doc.FechaEmision,
		MontoNeto:     doc.MontoNeto,
		MontoIVA:      doc.MontoIVA,
		MontoTotal:    doc.MontoTotal,
	}
	for i, d := range doc.Detalle {
		m.Detalle = append(m.Detalle, detalleTpl{
			NroLinea:       i + 1,
			Nombre:         d.Nombre,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			MontoItem:      d.MontoItem,
		})
	}

	return util.MergeTemplate(&tpl.EnvioDTE, m)
}
