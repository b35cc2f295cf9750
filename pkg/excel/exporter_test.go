package excel

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestNewTableExporter_SheetNameTruncatedByRune(t *testing.T) {
	long := strings.Repeat("工", 40)
	e := NewTableExporter(long)

	runes := []rune(e.sheetName)
	assert.Len(t, runes, 31)
	assert.Equal(t, strings.Repeat("工", 31), e.sheetName, "no split mid-character")
}

func TestNewTableExporter_EmptyNameDefaults(t *testing.T) {
	e := NewTableExporter("")
	assert.Equal(t, "Sheet1", e.sheetName)
}

func TestExport_WritesHeaderAndRows(t *testing.T) {
	e := NewTableExporter("工事一覧表")
	data, err := e.Export(
		[]string{"工事ID", "工事名"},
		[][]string{{"K-1", "変電所改修"}, {"K-2", "鉄塔建替"}},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	rows, err := f.GetRows("工事一覧表")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"工事ID", "工事名"}, rows[0])
	assert.Equal(t, []string{"K-1", "変電所改修"}, rows[1])
	assert.Equal(t, []string{"K-2", "鉄塔建替"}, rows[2])
}
