package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/diewo77/pos-app/internal/httpx"
	"github.com/diewo77/pos-app/internal/models"
	"github.com/diewo77/pos-app/internal/upload"
	"github.com/diewo77/pos-app/internal/validation"
)

const maxUploadBytes = 10 << 20

type ProductHandler struct {
	DB      *gorm.DB
	Uploads *upload.Store
	// Dev toggles error detail in responses.
	Dev bool
}

func NewProductHandler(db *gorm.DB, uploads *upload.Store, dev bool) *ProductHandler {
	return &ProductHandler{DB: db, Uploads: uploads, Dev: dev}
}

// internalError is the catch-all failure path: parse failures and store
// failures alike collapse to a generic 500, with detail only in dev.
func (h *ProductHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	var details any
	if h.Dev && err != nil {
		details = err.Error()
	}
	httpx.Error(w, r, http.StatusInternalServerError, "internal_error", details)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Model(&models.Product{})
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		dbq = dbq.Where("lower(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	products := []models.Product{}
	if err := dbq.Order("created_at desc").Find(&products).Error; err != nil {
		h.internalError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, products)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.internalError(w, r, err)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	priceStr := r.FormValue("price")
	stockStr := r.FormValue("stockQuantity")
	if priceStr == "" || stockStr == "" {
		h.internalError(w, r, errors.New("price and stockQuantity are required"))
		return
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		h.internalError(w, r, fmt.Errorf("parse price: %w", err))
		return
	}
	stock, err := strconv.Atoi(stockStr)
	if err != nil {
		h.internalError(w, r, fmt.Errorf("parse stockQuantity: %w", err))
		return
	}
	p := models.Product{
		Name:          name,
		Price:         price,
		StockQuantity: stock,
		Currency:      r.FormValue("currency"),
		StockUnit:     r.FormValue("stockUnit"),
		Category:      r.FormValue("category"),
	}
	if ratingStr := r.FormValue("rating"); ratingStr != "" {
		rating, err := strconv.ParseFloat(ratingStr, 64)
		if err != nil {
			h.internalError(w, r, fmt.Errorf("parse rating: %w", err))
			return
		}
		p.Rating = rating
	}
	// Violations collapse into the same generic path as parse errors;
	// there is no 4xx validation taxonomy here.
	v := validation.Violations{}
	validation.Required("name", name, v)
	validation.NonNegativeInt("stockQuantity", stock, v)
	if p.Rating != 0 {
		validation.RangeFloat("rating", p.Rating, 0, 5, v)
	}
	if !v.Empty() {
		h.internalError(w, r, v)
		return
	}
	if file, header, ferr := r.FormFile("image"); ferr == nil {
		defer file.Close()
		path, uerr := h.Uploads.Save(file, header)
		if uerr != nil {
			h.internalError(w, r, uerr)
			return
		}
		p.ImagePath = path
	}
	if err := h.DB.Create(&p).Error; err != nil {
		h.internalError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusCreated, p)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")
	var p models.Product
	if err := h.DB.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Error(w, r, http.StatusNotFound, "not_found", nil)
			return
		}
		h.internalError(w, r, err)
		return
	}
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		if err := h.applyJSONPatch(r, &p); err != nil {
			h.internalError(w, r, err)
			return
		}
	} else {
		if err := h.applyFormPatch(r, &p); err != nil {
			h.internalError(w, r, err)
			return
		}
	}
	if err := h.DB.Save(&p).Error; err != nil {
		h.internalError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, p)
}

func (h *ProductHandler) applyJSONPatch(r *http.Request, p *models.Product) error {
	var body struct {
		Name          *string  `json:"name"`
		Price         *float64 `json:"price"`
		Currency      *string  `json:"currency"`
		StockQuantity *int     `json:"stockQuantity"`
		StockUnit     *string  `json:"stockUnit"`
		Category      *string  `json:"category"`
		Rating        *float64 `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	if body.Name != nil {
		p.Name = *body.Name
	}
	if body.Price != nil {
		p.Price = *body.Price
	}
	if body.Currency != nil {
		p.Currency = *body.Currency
	}
	if body.StockQuantity != nil {
		p.StockQuantity = *body.StockQuantity
	}
	if body.StockUnit != nil {
		p.StockUnit = *body.StockUnit
	}
	if body.Category != nil {
		p.Category = *body.Category
	}
	if body.Rating != nil {
		p.Rating = *body.Rating
	}
	return nil
}

func (h *ProductHandler) applyFormPatch(r *http.Request, p *models.Product) error {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		// plain form bodies land here too
		if ferr := r.ParseForm(); ferr != nil {
			return fmt.Errorf("parse form: %w", ferr)
		}
	}
	form := r.Form
	if vals, ok := form["name"]; ok {
		p.Name = vals[0]
	}
	if vals, ok := form["price"]; ok {
		f, err := strconv.ParseFloat(vals[0], 64)
		if err != nil {
			return fmt.Errorf("parse price: %w", err)
		}
		p.Price = f
	}
	if vals, ok := form["stockQuantity"]; ok {
		n, err := strconv.Atoi(vals[0])
		if err != nil {
			return fmt.Errorf("parse stockQuantity: %w", err)
		}
		p.StockQuantity = n
	}
	if vals, ok := form["currency"]; ok {
		p.Currency = vals[0]
	}
	if vals, ok := form["stockUnit"]; ok {
		p.StockUnit = vals[0]
	}
	if vals, ok := form["category"]; ok {
		p.Category = vals[0]
	}
	if vals, ok := form["rating"]; ok {
		f, err := strconv.ParseFloat(vals[0], 64)
		if err != nil {
			return fmt.Errorf("parse rating: %w", err)
		}
		p.Rating = f
	}
	if file, header, ferr := r.FormFile("image"); ferr == nil {
		defer file.Close()
		path, uerr := h.Uploads.Save(file, header)
		if uerr != nil {
			return uerr
		}
		p.ImagePath = path
	}
	return nil
}
