package i18n

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	tr, err := New("id")
	require.NoError(t, err)

	assert.Equal(t, "Product name is required.", tr.Translate("en-US", "product.name_required", nil))
	assert.Equal(t, "Nama produk wajib diisi.", tr.Translate("id-ID,id;q=0.9,en;q=0.8", "product.name_required", nil))
	assert.Equal(t, "SKU ABC-1 is already used by another variant.",
		tr.Translate("", "product.sku_taken", map[string]interface{}{"SKU": "ABC-1"}))
}

func TestTranslateUnknownFallsBack(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)

	assert.Equal(t, "no.such.message", tr.Translate("en", "no.such.message", nil))
	assert.Equal(t, "Product name is required.", tr.Translate("fr", "product.name_required", nil))

	var nilTr *Translator
	assert.Equal(t, "x", nilTr.Translate("en", "x", nil))
}

func TestNewUnknownLocale(t *testing.T) {
	_, err := New("xx")
	assert.Error(t, err)
}

func TestLocalesHaveSameKeys(t *testing.T) {
	load := func(name string) map[string]string {
		data, err := localeFS.ReadFile("locales/" + name)
		require.NoError(t, err)
		out := map[string]string{}
		require.NoError(t, json.Unmarshal(data, &out))
		return out
	}
	en := load("active.en.json")
	id := load("active.id.json")

	for key := range en {
		assert.Contains(t, id, key)
	}
	assert.Len(t, id, len(en))
}
