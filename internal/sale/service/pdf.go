package service

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/billhive/billhive/internal/clock"
	saledomain "github.com/billhive/billhive/internal/sale/domain"
)

func (s *Service) RenderPDF(ctx context.Context, rows []saledomain.ReportRow, from, to string) ([]byte, error) {
	if len(rows) == 0 {
		return nil, saledomain.ErrNoSales
	}
	layout := s.reportCfg.Get()

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, layout.Title, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, fmt.Sprintf("From: %s   To: %s", from, to), props.Text{
			Size:  11,
			Align: align.Center,
		}),
	)

	m.AddRow(10,
		text.NewCol(3, "Date", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Item", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(1, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Rate", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, row := range rows {
		m.AddRow(8,
			text.NewCol(3, row.CreatedAt.In(clock.Location()).Format("02/01/2006"), props.Text{Size: 9}),
			text.NewCol(4, row.ItemName, props.Text{Size: 9}),
			text.NewCol(1, row.Quantity.String(), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, row.UnitPrice.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, row.TotalPrice.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(12,
		col.New(7),
		text.NewCol(5, fmt.Sprintf("Grand Total: %s%s", layout.CurrencySymbol, grandTotal(rows).StringFixed(2)), props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
