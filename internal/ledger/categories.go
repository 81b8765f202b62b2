package ledger

import (
	"sort"
	"strconv"
	"strings"
)

// DiscoverCategoryIDs returns the distinct first category id of every row's
// productCatIds ("[100630, 100640]" or a bare "100630"), sorted. Zero and
// unparsable values are ignored; a ledger without the column yields nothing.
func (s *Store) DiscoverCategoryIDs() ([]int64, error) {
	t, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	if !t.Schema.Has(ColProductCatIDs) {
		return nil, nil
	}

	seen := make(map[int64]struct{})
	for _, row := range t.Rows {
		id, ok := FirstCategoryID(row[ColProductCatIDs])
		if !ok {
			continue
		}
		seen[id] = struct{}{}
	}

	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// FirstCategoryID extracts the leading id of a serialized productCatIds
// value. It reports false for empty, zero or garbage input.
func FirstCategoryID(raw string) (int64, bool) {
	clean := strings.NewReplacer("[", "", "]", "").Replace(raw)
	first := strings.TrimSpace(strings.SplitN(clean, ",", 2)[0])
	if first == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(first, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
