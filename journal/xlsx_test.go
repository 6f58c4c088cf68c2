package journal

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	a := sampleTrade(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), 42)
	a.TradeID = "A"
	b := sampleTrade(time.Date(2024, 1, 3, 3, 4, 5, 0, time.UTC), -7.25)
	b.TradeID = "B"
	b.OrderType = Sell

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, []TradeRecord{a, b}))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })

	assert.Equal(t, []string{xlsxSheet}, wb.GetSheetList())

	rows, err := wb.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ExportHeader, rows[0])
	assert.Equal(t, "A", rows[1][0])
	assert.Equal(t, "B", rows[2][0])
	assert.Equal(t, "SELL", rows[2][4])

	v, err := wb.GetCellValue(xlsxSheet, "M2")
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}
