// Package reports renders dashboard figures into spreadsheets owners can
// download and keep.
package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tapinhq/tapin/internal/domain/dashboard"
	"github.com/tapinhq/tapin/internal/domain/shops"
)

// Daily builds a one-sheet xlsx with the shop header and the day's summary.
func Daily(shop *shops.Shop, sum *dashboard.Summary, date time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{"shop_name", "shop_code", "date", "served_today", "active_members"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("report header: %w", err)
	}

	row := []interface{}{
		shop.Name,
		shop.Code,
		date.Format("2006-01-02"),
		sum.ServedToday,
		sum.ActiveMembers,
	}
	if err := f.SetSheetRow(sheet, "A2", &row); err != nil {
		return nil, fmt.Errorf("report row: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("report write: %w", err)
	}
	return buf.Bytes(), nil
}
