package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNegotiate(t *testing.T) {
	b, err := NewBundle("en")
	require.NoError(t, err)

	assert.Equal(t, language.Indonesian, b.Negotiate("id-ID,id;q=0.9,en;q=0.8"))
	assert.Equal(t, language.English, b.Negotiate("en-GB"))
	assert.Equal(t, language.English, b.Negotiate("ja"))
	assert.Equal(t, language.English, b.Negotiate(""))
}

func TestFallbackLocale(t *testing.T) {
	b, err := NewBundle("id")
	require.NoError(t, err)
	assert.Equal(t, language.Indonesian, b.Negotiate(""))

	_, err = NewBundle("not a tag!")
	assert.Error(t, err)
}

func TestPrinterMessages(t *testing.T) {
	b, err := NewBundle("en")
	require.NoError(t, err)

	en := b.Printer("en")
	assert.Equal(t, "Product Types", en.Message("Product Types"))
	assert.Equal(t, "Regular product type", en.Message("Regular product type"))

	id := b.Printer("id")
	assert.Equal(t, "Tipe Produk", id.Message("Product Types"))
	assert.Equal(t, "Tipe produk kartu hadiah", id.Message("Gift card product type"))
	assert.Equal(t, "Unknown key", id.Message("Unknown key"))

	assert.Equal(t, language.English, b.Printer("garbage").Tag())
}

func TestDecimal(t *testing.T) {
	b, err := NewBundle("en")
	require.NoError(t, err)
	assert.Equal(t, "1,234.5", b.Printer("en").Decimal(1234.5))
	assert.Equal(t, "1.234,5", b.Printer("id").Decimal(1234.5))
}
