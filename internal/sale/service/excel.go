package service

import (
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/billhive/billhive/internal/clock"
	saledomain "github.com/billhive/billhive/internal/sale/domain"
)

func (s *Service) RenderExcel(ctx context.Context, rows []saledomain.ReportRow, from, to string) ([]byte, error) {
	if len(rows) == 0 {
		return nil, saledomain.ErrNoSales
	}
	layout := s.reportCfg.Get()

	f := excelize.NewFile()
	defer f.Close()

	sheet := layout.Title
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(sheet, "A1", &[]any{"Date", "Item", "Quantity", "Rate", "Total"}); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		quantity, _ := row.Quantity.Float64()
		unitPrice, _ := row.UnitPrice.Float64()
		totalPrice, _ := row.TotalPrice.Float64()
		if err := f.SetSheetRow(sheet, cell, &[]any{
			row.CreatedAt.In(clock.Location()).Format("02/01/2006"),
			row.ItemName,
			quantity,
			unitPrice,
			totalPrice,
		}); err != nil {
			return nil, err
		}
	}

	totalCell, err := excelize.CoordinatesToCellName(1, len(rows)+3)
	if err != nil {
		return nil, err
	}
	total, _ := grandTotal(rows).Float64()
	if err := f.SetSheetRow(sheet, totalCell, &[]any{"", "", "", "Grand Total", total}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
