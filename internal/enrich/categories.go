package enrich

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultCategoryLabel is used when no table entry matches.
const DefaultCategoryLabel = "Outros"

// CategoryEntry maps a marketplace category id to a site label. Labels use
// underscores for spaces.
type CategoryEntry struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// CategoryTable is an ordered id->label lookup. Order matters: Label
// returns the first entry whose id occurs in the row, not the most specific.
type CategoryTable struct {
	Version string          `json:"version"`
	Entries []CategoryEntry `json:"categories"`
}

func NewCategoryTable(version string, entries ...CategoryEntry) *CategoryTable {
	return &CategoryTable{Version: version, Entries: append([]CategoryEntry(nil), entries...)}
}

// DefaultCategoryTable is the table the site has always been built with.
func DefaultCategoryTable() *CategoryTable {
	return NewCategoryTable("2025.1",
		CategoryEntry{100630, "Beleza"},
		CategoryEntry{100631, "Pet"},
		CategoryEntry{100632, "Mãe_e_Bebê"},
		CategoryEntry{100633, "Moda_Infantil"},
		CategoryEntry{100635, "Câmeras-e-Drones"},
		CategoryEntry{100636, "Casa_e_Construcao"},
		CategoryEntry{100637, "Esportes_e_Lazer"},
		CategoryEntry{100638, "Papelaria"},
		CategoryEntry{100001, "Saúde"},
		CategoryEntry{100010, "Eletrodomesticos"},
		CategoryEntry{100011, "Roupas_Masculinas"},
		CategoryEntry{100013, "Celulares"},
		CategoryEntry{100017, "Moda_Feminina"},
		CategoryEntry{100532, "Sapatos_Femininos"},
		CategoryEntry{100533, "Bolsas_Masculinas"},
		CategoryEntry{100009, "Acessorios_Moda"},
		CategoryEntry{100535, "Áudio"},
		CategoryEntry{102187, "Pecas_Veiculos"},
		CategoryEntry{100015, "Viagens_e_Bagagens"},
		CategoryEntry{100643, "Livros_Revistas"},
		CategoryEntry{100639, "CD"},
		CategoryEntry{100016, "Bolsas_Femininas"},
		CategoryEntry{100012, "Sapatos_Masculinos"},
		CategoryEntry{100629, "Alimentos_e_Bebidas"},
		CategoryEntry{100534, "Relógios"},
	)
}

// LoadCategoryTable reads a table from a JSON file of the form
// {"version": "...", "categories": [{"id": 1, "label": "X"}, ...]}.
func LoadCategoryTable(path string) (*CategoryTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read category table: %w", err)
	}
	var t CategoryTable
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode category table %s: %w", path, err)
	}
	if len(t.Entries) == 0 {
		return nil, fmt.Errorf("category table %s has no entries", path)
	}
	return &t, nil
}

// Label scans the table in order and returns the label of the first entry
// whose id appears as a substring of catIDs, with underscores rendered as
// spaces.
// TODO: match whole ids instead of substrings once the site's category
// filters are regenerated; "[1006301]" currently matches Beleza (100630).
func (t *CategoryTable) Label(catIDs string) string {
	for _, e := range t.Entries {
		if strings.Contains(catIDs, strconv.FormatInt(e.ID, 10)) {
			return strings.ReplaceAll(e.Label, "_", " ")
		}
	}
	return DefaultCategoryLabel
}

// Lookup returns the raw label for an exact id.
func (t *CategoryTable) Lookup(id int64) (string, bool) {
	for _, e := range t.Entries {
		if e.ID == id {
			return e.Label, true
		}
	}
	return "", false
}
