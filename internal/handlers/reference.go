package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/pos-app/internal/httpx"
	"github.com/diewo77/pos-app/internal/models"
)

// ReferenceHandler serves the seeded category and stock-unit tables that
// back the product form dropdowns.
type ReferenceHandler struct {
	DB *gorm.DB
}

func NewReferenceHandler(db *gorm.DB) *ReferenceHandler { return &ReferenceHandler{DB: db} }

func (h *ReferenceHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats := []models.Category{}
	if err := h.DB.Order("name asc").Find(&cats).Error; err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, r, http.StatusOK, cats)
}

func (h *ReferenceHandler) StockUnits(w http.ResponseWriter, r *http.Request) {
	units := []models.StockUnit{}
	if err := h.DB.Order("name asc").Find(&units).Error; err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, r, http.StatusOK, units)
}
