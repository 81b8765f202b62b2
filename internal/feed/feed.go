// Package feed writes the offers file the static site loads with a
// <script> tag.
package feed

import (
	"bytes"
	"encoding/json"
	"fmt"

	"achadinhos/internal/fileutil"
	"achadinhos/internal/model"
)

// DefaultVariable is the global the site reads offers from.
const DefaultVariable = "window.ACHADINHOS_OFERTAS"

type Writer struct {
	Path     string
	Variable string
}

func NewWriter(path, variable string) *Writer {
	if variable == "" {
		variable = DefaultVariable
	}
	return &Writer{Path: path, Variable: variable}
}

// Write replaces the feed file with offers. The whole file is rewritten on
// every run.
func (w *Writer) Write(offers []model.EnrichedOffer) error {
	data, err := Encode(w.Variable, offers)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFile(w.Path, data, 0o644); err != nil {
		return fmt.Errorf("write feed %s: %w", w.Path, err)
	}
	return nil
}

// Encode renders `<variable> = [...];` with two-space indented JSON. Non-ASCII
// and HTML characters are written as-is.
func Encode(variable string, offers []model.EnrichedOffer) ([]byte, error) {
	if offers == nil {
		offers = []model.EnrichedOffer{}
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(offers); err != nil {
		return nil, fmt.Errorf("encode feed: %w", err)
	}

	var out bytes.Buffer
	out.WriteString(variable)
	out.WriteString(" = ")
	out.Write(bytes.TrimRight(body.Bytes(), "\n"))
	out.WriteString(";")
	return out.Bytes(), nil
}
