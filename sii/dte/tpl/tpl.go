// Package tpl plantillas XML para la construcción de documentos.
package tpl

import _ "embed"

//go:embed envio_dte.xml
var EnvioDTE string
