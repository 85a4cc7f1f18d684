package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/dhaba-pos/api/internal/database"
)

// ReportStore defines the aggregation reads over closed orders.
type ReportStore interface {
	GetDailySummary(ctx context.Context, arg database.DailySummaryParams) (database.DailySummaryRow, error)
	ListDailyTenderTotals(ctx context.Context, arg database.DailySummaryParams) ([]database.TenderTotalRow, error)
	ListDailyItemSales(ctx context.Context, arg database.DailySummaryParams) ([]database.ItemSalesRow, error)
}

// ReportService aggregates the sales history for end-of-day review.
type ReportService struct {
	store ReportStore
}

func NewReportService(store ReportStore) *ReportService {
	return &ReportService{store: store}
}

type TenderTotal struct {
	TenderName string
	Amount     decimal.Decimal
}

type ItemSales struct {
	ItemName   string
	TotalQty   int64
	TotalSales decimal.Decimal
}

type DailyReport struct {
	Date          string
	TotalOrders   int64
	GrossSales    decimal.Decimal
	TotalDiscount decimal.Decimal
	NetSales      decimal.Decimal
	AvgBill       decimal.Decimal
	Tenders       []TenderTotal
	TopItems      []ItemSales
}

// Daily builds the sales report for one business date.
func (s *ReportService) Daily(ctx context.Context, restaurantID uuid.UUID, date time.Time) (*DailyReport, error) {
	arg := database.DailySummaryParams{
		RestaurantID: restaurantID,
		Date:         pgtype.Date{Time: date, Valid: true},
	}

	summary, err := s.store.GetDailySummary(ctx, arg)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}

	tenders, err := s.store.ListDailyTenderTotals(ctx, arg)
	if err != nil {
		return nil, fmt.Errorf("tender totals: %w", err)
	}

	items, err := s.store.ListDailyItemSales(ctx, arg)
	if err != nil {
		return nil, fmt.Errorf("item sales: %w", err)
	}

	report := &DailyReport{
		Date:          date.Format("2006-01-02"),
		TotalOrders:   summary.TotalOrders,
		GrossSales:    numericToDecimal(summary.GrossSales),
		TotalDiscount: numericToDecimal(summary.TotalDiscount),
		NetSales:      numericToDecimal(summary.NetSales),
		AvgBill:       numericToDecimal(summary.AvgBill),
	}
	for _, t := range tenders {
		report.Tenders = append(report.Tenders, TenderTotal{
			TenderName: t.TenderName,
			Amount:     numericToDecimal(t.Amount),
		})
	}
	for _, i := range items {
		report.TopItems = append(report.TopItems, ItemSales{
			ItemName:   i.ItemName,
			TotalQty:   i.TotalQty,
			TotalSales: numericToDecimal(i.TotalSales),
		})
	}
	return report, nil
}
