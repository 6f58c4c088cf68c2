package journal

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rustyeddy/tradejournal/risk"
)

const xlsxSheet = "Trades"

// WriteXLSX writes trades to a single-sheet workbook. Numeric columns are
// stored as numbers so the sheet can be charted directly.
func WriteXLSX(w io.Writer, trades []TradeRecord) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}

	header := make([]any, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := wb.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return err
	}

	for i, t := range trades {
		row := []any{
			t.TradeID,
			t.EntryTime.UTC().Format(time.RFC3339),
			t.ExitTime.UTC().Format(time.RFC3339),
			t.Instrument,
			string(t.OrderType),
			t.EntryPrice,
			t.ExitPrice,
			t.StopLoss,
			t.TakeProfit,
			t.PositionSize,
			risk.RR(t.EntryPrice, t.StopLoss, t.TakeProfit),
			string(t.Status),
			t.NetProfit,
			t.RValue,
			t.Emotions,
			t.Tags,
			t.Rationale,
			t.Review,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := wb.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	if err := wb.SetPanes(xlsxSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	_, err := wb.WriteTo(w)
	return err
}
