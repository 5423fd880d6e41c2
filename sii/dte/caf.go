package dte

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/model"
)

// VigenciaCAF los CAF caducan seis meses después de su autorización.
const VigenciaCAF = 6 * 30 * 24 * time.Hour

// ParseCAF lee un archivo de autorización de folios (CAF) del SII y extrae el
// rango autorizado. La vigencia se evalúa contra el instante dado.
func ParseCAF(data []byte, now time.Time) (*model.RangoFolios, error) {

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("leyendo CAF: %w", err)
	}

	da := doc.FindElement("//AUTORIZACION/CAF/DA")
	if da == nil {
		return nil, fmt.Errorf("CAF sin nodo DA")
	}

	rango := &model.RangoFolios{}

	if e := da.FindElement("RE"); e != nil {
		rango.RutEmisor = e.Text()
	}
	if e := da.FindElement("RS"); e != nil {
		rango.RazonSocial = e.Text()
	}

	td, err := intChild(da, "TD")
	if err != nil {
		return nil, err
	}
	rango.TipoDocumento = td

	desde, err := intChild(da, "RNG/D")
	if err != nil {
		return nil, err
	}
	hasta, err := intChild(da, "RNG/H")
	if err != nil {
		return nil, err
	}
	if desde > hasta {
		return nil, fmt.Errorf("CAF con rango invertido: [%d, %d]", desde, hasta)
	}
	rango.FolioDesde = desde
	rango.FolioHasta = hasta

	fa := da.FindElement("FA")
	if fa == nil {
		return nil, fmt.Errorf("CAF sin fecha de autorización")
	}
	fecha, err := time.Parse("2006-01-02", fa.Text())
	if err != nil {
		return nil, fmt.Errorf("fecha de autorización ilegible: %w", err)
	}
	rango.FechaAutorizacion = fecha
	rango.Vigente = !now.Before(fecha) && now.Before(fecha.Add(VigenciaCAF))

	return rango, nil
}

func intChild(parent *etree.Element, path string) (int, error) {
	e := parent.FindElement(path)
	if e == nil {
		return 0, fmt.Errorf("CAF sin nodo %s", path)
	}
	v, err := strconv.Atoi(e.Text())
	if err != nil {
		return 0, fmt.Errorf("nodo %s no numérico: %w", path, err)
	}
	return v, nil
}
