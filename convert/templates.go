package convert

import (
	"bytes"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

// Values is a struct that holds variables we make available for output name
// template expansion
type Values struct {
	// Name is source file name without extension
	Name string
	// Dir is source directory relative to processed SOURCE
	Dir      string
	Format   string
	Root     string
	Elements int
	Rules    int
}

func expandTemplate(name, field string, values Values) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(name).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
