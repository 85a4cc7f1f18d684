package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/dhaba-pos/api/internal/database"
	"github.com/dhaba-pos/api/internal/middleware"
	"github.com/dhaba-pos/api/internal/service"
)

// ConfigServicer defines the service method behind the terminal config load.
// Satisfied by *service.ConfigService.
type ConfigServicer interface {
	Bundle(ctx context.Context, restaurantID uuid.UUID) (*service.ConfigBundle, error)
}

// ConfigHandler serves the menu and tender catalogue.
type ConfigHandler struct {
	svc ConfigServicer
}

func NewConfigHandler(svc ConfigServicer) *ConfigHandler {
	return &ConfigHandler{svc: svc}
}

type categoryResponse struct {
	ID           uuid.UUID `json:"id"`
	CategoryName string    `json:"category_name"`
	DisplayOrder int32     `json:"display_order"`
}

type itemResponse struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	ItemName   string    `json:"item_name"`
}

type sizeResponse struct {
	ID       uuid.UUID `json:"id"`
	ItemID   uuid.UUID `json:"item_id"`
	SizeName string    `json:"size_name"`
	Price    string    `json:"price"`
}

type comboResponse struct {
	ID        uuid.UUID `json:"id"`
	ComboName string    `json:"combo_name"`
}

type comboItemResponse struct {
	ComboID uuid.UUID `json:"combo_id"`
	ItemID  uuid.UUID `json:"item_id"`
	SizeID  string    `json:"size_id,omitempty"`
	Qty     int32     `json:"qty"`
}

type tenderResponse struct {
	ID         uuid.UUID `json:"id"`
	TenderName string    `json:"tender_name"`
}

type configResponse struct {
	Categories []categoryResponse  `json:"categories"`
	Items      []itemResponse      `json:"items"`
	Sizes      []sizeResponse      `json:"sizes"`
	Combos     []comboResponse     `json:"combos"`
	ComboItems []comboItemResponse `json:"combo_items"`
	Tenders    []tenderResponse    `json:"tenders"`
}

// Init handles GET /config/init.
func (h *ConfigHandler) Init(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	bundle, err := h.svc.Bundle(r.Context(), claims.RestaurantID)
	if err != nil {
		log.Printf("ERROR: config init: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toConfigResponse(bundle))
}

func toConfigResponse(b *service.ConfigBundle) configResponse {
	resp := configResponse{
		Categories: make([]categoryResponse, len(b.Categories)),
		Items:      make([]itemResponse, len(b.Items)),
		Sizes:      make([]sizeResponse, len(b.Sizes)),
		Combos:     make([]comboResponse, len(b.Combos)),
		ComboItems: make([]comboItemResponse, len(b.ComboItems)),
		Tenders:    make([]tenderResponse, len(b.Tenders)),
	}
	for i, c := range b.Categories {
		resp.Categories[i] = categoryResponse{ID: c.ID, CategoryName: c.CategoryName, DisplayOrder: c.DisplayOrder}
	}
	for i, it := range b.Items {
		resp.Items[i] = itemResponse{ID: it.ID, CategoryID: it.CategoryID, ItemName: it.ItemName}
	}
	for i, s := range b.Sizes {
		resp.Sizes[i] = sizeResponse{ID: s.ID, ItemID: s.ItemID, SizeName: s.SizeName, Price: numericToString(s.Price)}
	}
	for i, c := range b.Combos {
		resp.Combos[i] = comboResponse{ID: c.ID, ComboName: c.ComboName}
	}
	for i, ci := range b.ComboItems {
		resp.ComboItems[i] = toComboItemResponse(ci)
	}
	for i, t := range b.Tenders {
		resp.Tenders[i] = tenderResponse{ID: t.ID, TenderName: t.TenderName}
	}
	return resp
}

func toComboItemResponse(ci database.ComboItem) comboItemResponse {
	resp := comboItemResponse{ComboID: ci.ComboID, ItemID: ci.ItemID, Qty: ci.Qty}
	if ci.SizeID.Valid {
		resp.SizeID = uuid.UUID(ci.SizeID.Bytes).String()
	}
	return resp
}
