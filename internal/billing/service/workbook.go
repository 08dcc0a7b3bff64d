package service

import (
	"fmt"
	"io"
	"time"

	"ginhawa/pkg/model"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Invoices"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var workbookHeaders = []any{
	"Reference", "Source", "Source Reference", "Customer", "Email",
	"Room", "Total", "Payment Status", "Payment Method", "Created", "Paid",
}

// WriteWorkbook renders invoices as a single sheet with one header row.
// Timestamps are shown in loc.
func WriteWorkbook(w io.Writer, invoices []*model.Invoice, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &workbookHeaders); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, inv := range invoices {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			inv.Reference,
			string(inv.Source),
			inv.SourceReference,
			inv.CustomerName,
			inv.CustomerEmail,
			roomCell(inv.RoomNumber),
			inv.Total,
			string(inv.PaymentStatus),
			inv.PaymentMethod,
			inv.CreatedAt.In(loc).Format(time.DateTime),
			paidCell(inv.PaidAt, loc),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func roomCell(n *int) any {
	if n == nil {
		return ""
	}
	return *n
}

func paidCell(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(time.DateTime)
}
