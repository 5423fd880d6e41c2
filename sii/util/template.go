package util

import (
	"bytes"
	"encoding/base64"
	"text/template"
	"time"
)

// MergeTemplate combina un template de texto con el modelo dado. Registra
// helpers usados por las plantillas XML del SII: base64 y fecha (AAAA-MM-DD).
func MergeTemplate(tpl *string, model any) ([]byte, error) {

	var funcMap = template.FuncMap{
		"base64": base64.StdEncoding.EncodeToString,
		"fecha": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
	}

	tmpl, err := template.New("request").Funcs(funcMap).Parse(*tpl)
	if err != nil {
		return nil, err
	}

	var output bytes.Buffer

	err = tmpl.Execute(&output, model)
	if err != nil {
		return nil, err
	}
	return output.Bytes(), nil
}
