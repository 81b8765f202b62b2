package feed

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"achadinhos/internal/model"
)

func sample() []model.EnrichedOffer {
	return []model.EnrichedOffer{{
		ID:               "22334455",
		Titulo:           "Kit Pincéis <Maquiagem> & Esponja",
		ImagemURL:        "https://cf.shopee.com.br/file/abc",
		PrecoOriginal:    "R$ 100,00",
		PrecoPromocional: "R$ 90,00",
		Desconto:         "10%",
		Nota:             "4,9",
		Categoria:        "Beleza",
		LinkAfiliado:     "https://s.shopee.com.br/xyz?a=1&b=2",
		DataColeta:       "14/03/2025 09:30",
		Vendas:           "1520 vendidos",
		Loja:             "Loja Bela",
		Ativo:            true,
	}}
}

func TestEncode_Layout(t *testing.T) {
	data, err := Encode(DefaultVariable, sample())
	require.NoError(t, err)

	s := string(data)
	assert.True(t, strings.HasPrefix(s, "window.ACHADINHOS_OFERTAS = [\n  {\n    \"id\": \"22334455\",\n"))
	assert.True(t, strings.HasSuffix(s, "\n];"))
	assert.Contains(t, s, `"titulo": "Kit Pincéis <Maquiagem> & Esponja"`)
	assert.Contains(t, s, `"link_afiliado": "https://s.shopee.com.br/xyz?a=1&b=2"`)
}

func TestEncode_KeyOrder(t *testing.T) {
	data, err := Encode("x", sample())
	require.NoError(t, err)

	keys := []string{"id", "titulo", "imagem_url", "preco_original", "preco_promocional", "desconto",
		"nota", "categoria", "link_afiliado", "data_coleta", "vendas", "loja", "ativo"}
	s := string(data)
	last := -1
	for _, k := range keys {
		idx := strings.Index(s, `"`+k+`":`)
		require.Greater(t, idx, last, "key %s out of order", k)
		last = idx
	}
}

func TestEncode_EmptyIsArray(t *testing.T) {
	data, err := Encode(DefaultVariable, nil)
	require.NoError(t, err)
	assert.Equal(t, "window.ACHADINHOS_OFERTAS = [];", string(data))
}

func TestWriter_OverwritesAndParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ofertas.js")
	w := NewWriter(path, "")

	require.NoError(t, w.Write(append(sample(), sample()...)))
	require.NoError(t, w.Write(sample()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	body := strings.TrimSuffix(strings.TrimPrefix(string(data), DefaultVariable+" = "), ";")
	var got []model.EnrichedOffer
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, sample(), got)
}
