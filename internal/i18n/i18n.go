// Package i18n holds the back office message catalog and locale negotiation.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"
)

// Supported locales. The first entry is the fallback.
var supported = []language.Tag{language.English, language.Indonesian}

var translations = map[string]map[language.Tag]string{
	"Product Types":                    {language.Indonesian: "Tipe Produk"},
	"Create product type":              {language.Indonesian: "Buat tipe produk"},
	"Product type details":             {language.Indonesian: "Detail tipe produk"},
	"Product type name":                {language.Indonesian: "Nama tipe produk"},
	"Product type kind":                {language.Indonesian: "Jenis tipe produk"},
	"Regular product type":             {language.Indonesian: "Tipe produk reguler"},
	"Gift card product type":           {language.Indonesian: "Tipe produk kartu hadiah"},
	"Taxes":                            {language.Indonesian: "Pajak"},
	"Tax class":                        {language.Indonesian: "Kelas pajak"},
	"None":                             {language.Indonesian: "Tidak ada"},
	"Load more":                        {language.Indonesian: "Muat lagi"},
	"Metadata":                         {language.Indonesian: "Metadata"},
	"Private metadata":                 {language.Indonesian: "Metadata privat"},
	"Add field":                        {language.Indonesian: "Tambah kolom"},
	"Remove":                           {language.Indonesian: "Hapus"},
	"Field name":                       {language.Indonesian: "Nama kolom"},
	"Field value":                      {language.Indonesian: "Nilai kolom"},
	"Shipping":                         {language.Indonesian: "Pengiriman"},
	"Is this product shippable?":       {language.Indonesian: "Apakah produk ini dapat dikirim?"},
	"Weight":                           {language.Indonesian: "Berat"},
	"Save":                             {language.Indonesian: "Simpan"},
	"Cancel":                           {language.Indonesian: "Batal"},
	"Saving...":                        {language.Indonesian: "Menyimpan..."},
	"Name":                             {language.Indonesian: "Nama"},
	"Kind":                             {language.Indonesian: "Jenis"},
	"Search":                           {language.Indonesian: "Cari"},
	"Next page":                        {language.Indonesian: "Halaman berikutnya"},
	"No product types found.":          {language.Indonesian: "Tipe produk tidak ditemukan."},
	"Product type created.":            {language.Indonesian: "Tipe produk dibuat."},
	"The form has expired.":            {language.Indonesian: "Formulir sudah kedaluwarsa."},
	"The form is being saved.":         {language.Indonesian: "Formulir sedang disimpan."},
	"Please correct the errors below.": {language.Indonesian: "Perbaiki kesalahan di bawah ini."},
}

// Bundle resolves printers for negotiated locales.
type Bundle struct {
	catalog  catalog.Catalog
	matcher  language.Matcher
	fallback language.Tag
}

// NewBundle builds the catalog. defaultLocale is used when negotiation fails.
func NewBundle(defaultLocale string) (*Bundle, error) {
	fallback, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, err
	}
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, byTag := range translations {
		if err := b.SetString(language.English, key, key); err != nil {
			return nil, err
		}
		for tag, msg := range byTag {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, err
			}
		}
	}
	_, idx, conf := language.NewMatcher(supported).Match(fallback)
	if conf == language.No {
		idx = 0
	}
	return &Bundle{
		catalog:  b,
		matcher:  language.NewMatcher(supported),
		fallback: supported[idx],
	}, nil
}

// Negotiate picks a supported locale from an Accept-Language header value.
func (b *Bundle) Negotiate(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return b.fallback
	}
	return supported[idx]
}

// Printer returns a printer for a BCP 47 tag; unknown tags use the fallback.
func (b *Bundle) Printer(tag string) *Printer {
	t := b.fallback
	if parsed, err := language.Parse(tag); err == nil {
		if _, idx, conf := b.matcher.Match(parsed); conf != language.No {
			t = supported[idx]
		}
	}
	return &Printer{tag: t, p: message.NewPrinter(t, message.Catalog(b.catalog))}
}

// Printer translates messages for one locale.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// Tag is the locale of the printer.
func (p *Printer) Tag() language.Tag {
	return p.tag
}

// Message translates key, formatting args like fmt.Sprintf.
func (p *Printer) Message(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}

// Decimal formats v with locale grouping and separators.
func (p *Printer) Decimal(v float64) string {
	return p.p.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}
