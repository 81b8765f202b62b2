package ledger

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const delimiter = ';'

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// readHeader returns the first record of r; an empty input yields an empty
// schema.
func readHeader(r io.Reader) (Schema, error) {
	rec, err := newReader(r).Read()
	if errors.Is(err, io.EOF) {
		return Schema{}, nil
	}
	if err != nil {
		return Schema{}, err
	}
	return NewSchema(rec...), nil
}

// readTable parses a whole ledger. In lenient mode malformed lines are
// skipped and counted; in strict mode the first one aborts the read.
func readTable(r io.Reader, path string, strict bool) (*Table, error) {
	cr := newReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, &StructuralError{Path: path, Line: 1, Err: fmt.Errorf("read header: %w", err)}
	}
	t := &Table{Schema: NewSchema(header...)}
	width := len(header)

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return nil, &StructuralError{Path: path, Err: err}
			}
			if strict {
				return nil, &StructuralError{Path: path, Line: pe.Line, Err: pe.Err}
			}
			log.Printf("[Ledger] Linha %d ignorada em %s: %v", pe.Line, path, pe.Err)
			t.SkippedLines++
			continue
		}
		if len(rec) > width {
			line, _ := cr.FieldPos(0)
			if strict {
				return nil, &StructuralError{Path: path, Line: line, Err: fmt.Errorf("%d fields, header has %d", len(rec), width)}
			}
			log.Printf("[Ledger] Linha %d ignorada em %s: %d campos, cabeçalho tem %d", line, path, len(rec), width)
			t.SkippedLines++
			continue
		}
		row := make(Row, width)
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// encodeRows renders rows in schema order. A full file starts with a BOM and
// the header; an append chunk has neither.
func encodeRows(schema Schema, rows []Row, fullFile bool) ([]byte, error) {
	var buf bytes.Buffer
	var w io.Writer = &buf
	var bom io.WriteCloser
	if fullFile {
		bom = transform.NewWriter(&buf, unicode.UTF8BOM.NewEncoder())
		w = bom
	}

	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	if fullFile {
		if err := cw.Write(schema.Columns); err != nil {
			return nil, err
		}
	}
	for _, row := range rows {
		if err := cw.Write(schema.Align(row)); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	if bom != nil {
		if err := bom.Close(); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
