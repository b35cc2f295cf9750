package csvio_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamato-denko/koutei/pkg/csvio"
)

func TestParse_Empty(t *testing.T) {
	rows, err := csvio.Parse("")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParse_HeaderOnly(t *testing.T) {
	rows, err := csvio.Parse("a,b,c\n")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParse_TrimsWhitespaceAndBOM(t *testing.T) {
	rows, err := csvio.Parse("\uFEFFname , office\nyamada , honsha\n")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "yamada", rows[0]["name"])
	assert.Equal(t, "honsha", rows[0]["office"])
}

func TestParse_QuotedCommas(t *testing.T) {
	rows, err := csvio.Parse("id,place\n1,\"Ube, Yamaguchi\"\n")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ube, Yamaguchi", rows[0]["place"])
}

func TestParse_ShortRowGetsEmptyFields(t *testing.T) {
	rows, err := csvio.Parse("a,b,c\n1,2\n")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0]["b"])
	assert.Equal(t, "", rows[0]["c"])
}

func TestExport_QuotesEveryField(t *testing.T) {
	out := csvio.Export([]string{"a", "b"}, [][]string{{"1", "2"}})
	assert.True(t, strings.HasPrefix(out, "\uFEFF"), "export must carry a BOM")
	assert.Contains(t, out, `"1","2"`)
}

func TestExport_RoundTrip(t *testing.T) {
	out := csvio.Export([]string{"a", "b"}, [][]string{{"x,y", `z"w`}})

	rows, err := csvio.Parse(out)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "x,y", rows[0]["a"])
	assert.Equal(t, `z"w`, rows[0]["b"])
}
