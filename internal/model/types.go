package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Number accepts a JSON number, a numeric string or null. The API sends
// prices as strings and counts as numbers; anything unparsable becomes 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		f = 0
	}
	*n = Number(f)
	return nil
}

func (n Number) Float() float64 { return float64(n) }

// Text keeps an identifier as text whether the API sent it as a string or
// as a number literal, so large ids never pass through float64.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(data)
	return nil
}

func (t Text) String() string { return string(t) }

// IDList is a list of numeric ids (productCatIds, shopType).
type IDList []int64

// String renders the list the way the ledger has always stored it:
// "[100630, 100640]".
func (l IDList) String() string {
	parts := make([]string, len(l))
	for i, id := range l {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
