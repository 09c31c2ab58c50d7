package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colormatch/backend/internal/domain"
)

func TestNewParser_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultProductBaseURL, NewParser("").productBaseURL)
	assert.Equal(t, "https://shop.example", NewParser("https://shop.example/").productBaseURL)
}

func TestParse_ValidCatalog(t *testing.T) {
	data := strings.Join([]string{
		"Product Type,Company,Color,Hex",
		"Lipstick,Acme,/sminke/lepper/leppestift/acme/ruby-red,#FF0000",
		"Blush,Glow Co,/sminke/ansikt/rouge/glow-co/petal,#ffc0cb",
		"",
		"Nail Polish, Acme ,/sminke/negler/neglelakk/acme/midnight,#101020\r",
	}, "\n")

	catalog := NewParser("").Parse([]byte(data))

	require.Len(t, catalog.Records, 3)
	assert.Empty(t, catalog.Skipped)

	assert.Equal(t, domain.CatalogRecord{
		ProductType: "Lipstick",
		Company:     "Acme",
		ColorName:   "ruby-red",
		RGB:         domain.ColorRGB{R: 255},
		URL:         "https://www.kicks.no/sminke/lepper/leppestift/acme/ruby-red",
	}, catalog.Records[0])

	assert.Equal(t, "petal", catalog.Records[1].ColorName)
	assert.Equal(t, domain.ColorRGB{R: 255, G: 192, B: 203}, catalog.Records[1].RGB)

	assert.Equal(t, "Nail Polish", catalog.Records[2].ProductType)
	assert.Equal(t, "Acme", catalog.Records[2].Company)
	assert.Equal(t, domain.ColorRGB{R: 16, G: 16, B: 32}, catalog.Records[2].RGB)
}

func TestParse_HeaderOnlyAndEmpty(t *testing.T) {
	assert.Empty(t, NewParser("").Parse([]byte("Product Type,Company,Color,Hex\n")).Records)
	assert.Empty(t, NewParser("").Parse(nil).Records)
}

func TestParse_FirstLineIsAlwaysHeader(t *testing.T) {
	data := "Lipstick,Acme,/a/b/c/d/first,#000000\nLipstick,Acme,/a/b/c/d/second,#000000\n"

	catalog := NewParser("").Parse([]byte(data))

	require.Len(t, catalog.Records, 1)
	assert.Equal(t, "second", catalog.Records[0].ColorName)
}

func TestParse_MalformedRowsAreSkipped(t *testing.T) {
	data := strings.Join([]string{
		"Product Type,Company,Color,Hex",
		"Lipstick,Acme,/a/b/c/d/ok,#aa0000",
		"Lipstick,Acme,#aa0000",
		"Lipstick,Acme,/a/b/c/d/extra,#aa0000,unexpected",
		"Lipstick,Acme,/too/short,#aa0000",
		"Lipstick,Acme,/a/b/c/d/,#aa0000",
		"Lipstick,Acme,/a/b/c/d/badhex,#zz0000",
		"   ",
		"Blush,Acme,/a/b/c/d/fine,#00aa00",
	}, "\n")

	catalog := NewParser("").Parse([]byte(data))

	require.Len(t, catalog.Records, 2)
	assert.Equal(t, "ok", catalog.Records[0].ColorName)
	assert.Equal(t, "fine", catalog.Records[1].ColorName)

	require.Len(t, catalog.Skipped, 5)
	wantLines := []int{3, 4, 5, 6, 7}
	for i, row := range catalog.Skipped {
		assert.Equal(t, wantLines[i], row.Line)
		assert.Contains(t, row.Reason, domain.ErrMalformedRow.Error())
	}
	assert.Contains(t, catalog.Skipped[4].Reason, domain.ErrInvalidHexColor.Error())
}

func TestParseRow_Errors(t *testing.T) {
	p := NewParser("")

	_, err := p.parseRow([]string{"Lipstick", "Acme", "/a/b/c/d/x"})
	assert.ErrorIs(t, err, domain.ErrMalformedRow)

	_, err = p.parseRow([]string{"Lipstick", "Acme", "/a/b/c/d/x", "red"})
	assert.ErrorIs(t, err, domain.ErrMalformedRow)
	assert.ErrorIs(t, err, domain.ErrInvalidHexColor)
}

func TestExtractColorName(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{path: "/sminke/lepper/leppestift/acme/ruby", want: "ruby"},
		{path: "path/a/b/c/d/e/Red", want: "e"},
		{path: "/a/b/c/d/shade/more/segments", want: "shade"},
		{path: "/a/b/c/d", wantErr: true},
		{path: "path/.../Pink", wantErr: true},
		{path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := extractColorName(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrMalformedRow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_BlankFirstLineIsTheHeader(t *testing.T) {
	data := "\nLipstick,Acme,/a/b/c/d/first,#000000\nLipstick,Acme,/a/b/c/d/second,#000000\n"

	catalog := NewParser("").Parse([]byte(data))

	require.Len(t, catalog.Records, 2)
	assert.Equal(t, "first", catalog.Records[0].ColorName)
	assert.Equal(t, "second", catalog.Records[1].ColorName)
	assert.Empty(t, catalog.Skipped)
}

func TestParse_QuotesDoNotSpanRows(t *testing.T) {
	data := strings.Join([]string{
		"Product Type,Company,Color,Hex",
		"Lipstick,Acme,/a/b/c/d/ok,#aa0000",
		`Lipstick,"Acme,/a/b/c/d/stray,#aa0000`,
		"Lipstick,Acme,/a/b/c/d/one,#110000",
		`Lipstick,"Acme, Inc",/a/b/c/d/quoted,#aa0000`,
		"Blush,Acme,/a/b/c/d/two,#220000",
		"Bronzer,Acme,/a/b/c/d/three,#330000",
	}, "\n")

	catalog := NewParser("").Parse([]byte(data))

	names := make([]string, 0, len(catalog.Records))
	for _, r := range catalog.Records {
		names = append(names, r.ColorName)
	}
	assert.Equal(t, []string{"ok", "stray", "one", "two", "three"}, names)
	assert.Equal(t, `"Acme`, catalog.Records[1].Company)

	// A quoted comma is still a field separator.
	require.Len(t, catalog.Skipped, 1)
	assert.Equal(t, 5, catalog.Skipped[0].Line)
	assert.Contains(t, catalog.Skipped[0].Reason, "expected 4 fields, got 5")
}
