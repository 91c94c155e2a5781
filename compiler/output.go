package compiler

import (
	"encoding/json"
	"fmt"
	"io"

	yaml "gopkg.in/yaml.v3"

	"h2d/common"
	"h2d/design"
)

// Write encodes result in requested format.
func (r *Result) Write(w io.Writer, format common.OutputFmt) error {
	switch format {
	case common.OutputFmtJson:
		return r.WriteJSON(w)
	case common.OutputFmtYaml:
		return r.WriteYAML(w)
	case common.OutputFmtTree:
		return r.WriteTree(w)
	case common.OutputFmtIon:
		return r.WriteIon(w)
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

// WriteJSON writes result as indented JSON.
func (r *Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("unable to encode result as json: %w", err)
	}
	return nil
}

// WriteYAML writes result as YAML document.
func (r *Result) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("unable to encode result as yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("unable to encode result as yaml: %w", err)
	}
	return nil
}

// WriteTree writes human readable tree dump followed by warnings.
func (r *Result) WriteTree(w io.Writer) error {
	out := design.Dump(r.Root)
	if len(r.Warnings) > 0 {
		out += "\nwarnings:\n"
		for _, warn := range r.Warnings {
			out += "  " + warn + "\n"
		}
	}
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("unable to write tree: %w", err)
	}
	return nil
}
