package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dhaba-pos/api/internal/middleware"
	"github.com/dhaba-pos/api/internal/service"
)

// ReportServicer defines the service method behind sales reports.
// Satisfied by *service.ReportService.
type ReportServicer interface {
	Daily(ctx context.Context, restaurantID uuid.UUID, date time.Time) (*service.DailyReport, error)
}

// ReportHandler serves sales history aggregations.
type ReportHandler struct {
	svc ReportServicer
}

func NewReportHandler(svc ReportServicer) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type tenderTotalResponse struct {
	TenderName string `json:"tender_name"`
	Amount     string `json:"amount"`
}

type itemSalesResponse struct {
	ItemName   string `json:"item_name"`
	TotalQty   int64  `json:"total_qty"`
	TotalSales string `json:"total_sales"`
}

type dailyReportResponse struct {
	Date          string                `json:"date"`
	TotalOrders   int64                 `json:"total_orders"`
	GrossSales    string                `json:"gross_sales"`
	TotalDiscount string                `json:"total_discount"`
	NetSales      string                `json:"net_sales"`
	AvgBill       string                `json:"avg_bill"`
	Tenders       []tenderTotalResponse `json:"tenders"`
	TopItems      []itemSalesResponse   `json:"top_items"`
}

// Daily handles GET /reports/daily?date=YYYY-MM-DD.
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date is required"})
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}

	report, err := h.svc.Daily(r.Context(), claims.RestaurantID, date)
	if err != nil {
		log.Printf("ERROR: daily report: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := dailyReportResponse{
		Date:          report.Date,
		TotalOrders:   report.TotalOrders,
		GrossSales:    moneyString(report.GrossSales),
		TotalDiscount: moneyString(report.TotalDiscount),
		NetSales:      moneyString(report.NetSales),
		AvgBill:       moneyString(report.AvgBill),
	}
	for _, t := range report.Tenders {
		resp.Tenders = append(resp.Tenders, tenderTotalResponse{
			TenderName: t.TenderName,
			Amount:     moneyString(t.Amount),
		})
	}
	for _, it := range report.TopItems {
		resp.TopItems = append(resp.TopItems, itemSalesResponse{
			ItemName:   it.ItemName,
			TotalQty:   it.TotalQty,
			TotalSales: moneyString(it.TotalSales),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
