package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"achadinhos/internal/fileutil"
	"achadinhos/internal/model"
)

const filePerm = 0o644

// Store is the historical offer ledger: a semicolon separated, UTF-8 with
// BOM, decimal comma CSV file. Appends are aligned to the header already on
// disk; whole-file writes go through a temp file and a rename.
type Store struct {
	Path   string
	Filter QualityFilter
}

func NewStore(path string, filter QualityFilter) *Store {
	return &Store{Path: path, Filter: filter}
}

// AppendResult counts what happened to one batch.
type AppendResult struct {
	Received int
	Rejected int
	Written  int
	Migrated bool
}

// Append filters a raw batch and appends the survivors tagged with strategy
// and collectedAt. An empty batch is a no-op.
func (s *Store) Append(offers []model.RawOffer, strategy string, collectedAt time.Time) (AppendResult, error) {
	res := AppendResult{Received: len(offers)}
	if len(offers) == 0 {
		return res, nil
	}

	rows := make([]Row, 0, len(offers))
	for _, o := range offers {
		commission := EffectiveCommission(o)
		if !s.Filter.Accept(o.RatingStar.Float(), o.Sales.Float(), commission) {
			res.Rejected++
			continue
		}
		rows = append(rows, RowFromOffer(o, commission, strategy, collectedAt))
	}
	if len(rows) == 0 {
		return res, nil
	}

	schema, err := s.Header()
	if err != nil {
		return res, persistenceError("append", s.Path, fmt.Errorf("read header: %w", err))
	}

	if schema.Empty() {
		data, err := encodeRows(NewSchema(DefaultColumns...), rows, true)
		if err != nil {
			return res, persistenceError("create", s.Path, err)
		}
		if err := fileutil.WriteFile(s.Path, data, filePerm); err != nil {
			return res, persistenceError("create", s.Path, err)
		}
		res.Written = len(rows)
		return res, nil
	}

	if !schema.Has(ColStrategy) {
		log.Printf("[Ledger] Migrando %s para incluir coluna '%s'...", s.Path, ColStrategy)
		schema, err = s.migrate(ColStrategy, LegacyStrategy)
		if err != nil {
			return res, err
		}
		res.Migrated = true
	}

	data, err := encodeRows(schema, rows, false)
	if err != nil {
		return res, persistenceError("append", s.Path, err)
	}
	if err := s.appendBytes(data); err != nil {
		return res, persistenceError("append", s.Path, err)
	}
	res.Written = len(rows)
	return res, nil
}

// Header reads the column order currently on disk. A missing or empty file
// yields an empty schema.
func (s *Store) Header() (Schema, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Schema{}, nil
	}
	if err != nil {
		return Schema{}, err
	}
	defer f.Close()
	return readHeader(f)
}

// LoadAll reads every row as text, skipping lines that cannot be parsed.
// A missing file is an empty ledger.
func (s *Store) LoadAll() (*Table, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, &StructuralError{Path: s.Path, Err: err}
	}
	defer f.Close()
	return readTable(f, s.Path, false)
}

// Exists reports whether the ledger file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// Rewrite replaces the whole ledger with t, header included. The previous
// file stays in place until the new content is fully written.
func (s *Store) Rewrite(t *Table) error {
	data, err := encodeRows(t.Schema, t.Rows, true)
	if err != nil {
		return persistenceError("rewrite", s.Path, err)
	}
	if err := fileutil.WriteFile(s.Path, data, filePerm); err != nil {
		return persistenceError("rewrite", s.Path, err)
	}
	return nil
}

// migrate adds col to the end of the header, filling value into every
// existing row, and returns the new schema.
func (s *Store) migrate(col, value string) (Schema, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return Schema{}, &MigrationError{Path: s.Path, Column: col, Err: err}
	}
	t, err := readTable(f, s.Path, true)
	f.Close()
	if err != nil {
		return Schema{}, &MigrationError{Path: s.Path, Column: col, Err: err}
	}

	t.Schema = t.Schema.With(col)
	for _, row := range t.Rows {
		row[col] = value
	}
	data, err := encodeRows(t.Schema, t.Rows, true)
	if err != nil {
		return Schema{}, &MigrationError{Path: s.Path, Column: col, Err: err}
	}
	if err := fileutil.WriteFile(s.Path, data, filePerm); err != nil {
		return Schema{}, &MigrationError{Path: s.Path, Column: col, Err: err}
	}
	log.Printf("[Ledger] Migração concluída: %d linhas marcadas como '%s'", len(t.Rows), value)
	return t.Schema, nil
}

// appendBytes writes data at the end of the ledger, first terminating the
// last line when the file does not end in a newline.
func (s *Store) appendBytes(data []byte) error {
	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_RDWR, filePerm)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	if size := info.Size(); size > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, size-1); err != nil {
			f.Close()
			return err
		}
		if last[0] != '\n' {
			data = append([]byte{'\n'}, data...)
		}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
