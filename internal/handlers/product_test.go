package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/pos-app/internal/models"
	"github.com/diewo77/pos-app/internal/upload"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.StockUnit{}, &models.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestHandler(t *testing.T, db *gorm.DB) *ProductHandler {
	t.Helper()
	return NewProductHandler(db, upload.NewStore(t.TempDir()), true)
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestProductCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	h := newTestHandler(t, db)

	body, ct := multipartBody(t, map[string]string{
		"name":          "Espresso Beans",
		"price":         "12.5",
		"stockQuantity": "40",
		"category":      "Groceries",
	})
	req := httptest.NewRequest(http.MethodPost, "/products", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.Product
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	req2 := httptest.NewRequest(http.MethodGet, "/products", nil)
	w2 := httptest.NewRecorder()
	h.List(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w2.Code)
	}
	var products []models.Product
	if err := json.Unmarshal(w2.Body.Bytes(), &products); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Espresso Beans" {
		t.Fatalf("unexpected list: %+v", products)
	}
}

func TestProductCreateBadPrice(t *testing.T) {
	db := setupTestDB(t)
	h := newTestHandler(t, db)

	body, ct := multipartBody(t, map[string]string{
		"name":          "Broken",
		"price":         "abc",
		"stockQuantity": "3",
	})
	req := httptest.NewRequest(http.MethodPost, "/products", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
	var count int64
	db.Model(&models.Product{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no rows created, got %d", count)
	}
}

func TestProductListSearch(t *testing.T) {
	db := setupTestDB(t)
	h := newTestHandler(t, db)
	db.Create(&models.Product{Name: "Green Tea", Price: 4, StockQuantity: 10})
	db.Create(&models.Product{Name: "Black Coffee", Price: 5, StockQuantity: 10})

	req := httptest.NewRequest(http.MethodGet, "/products?search=tea", nil)
	w := httptest.NewRecorder()
	h.List(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var products []models.Product
	if err := json.Unmarshal(w.Body.Bytes(), &products); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Green Tea" {
		t.Fatalf("search mismatch: %+v", products)
	}
}

func patchRequest(t *testing.T, id, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPatch, "/products/"+id, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("productID", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestProductUpdateNotFound(t *testing.T) {
	db := setupTestDB(t)
	h := newTestHandler(t, db)

	w := httptest.NewRecorder()
	h.Update(w, patchRequest(t, "missing-id", `{"price": 9}`))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
	var count int64
	db.Model(&models.Product{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no writes, got %d rows", count)
	}
}

func TestProductUpdatePartial(t *testing.T) {
	db := setupTestDB(t)
	h := newTestHandler(t, db)
	p := models.Product{Name: "Milk", Price: 2.5, StockQuantity: 20, Currency: "USD"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := httptest.NewRecorder()
	h.Update(w, patchRequest(t, p.ID, `{"stockQuantity": 35}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var got models.Product
	if err := db.First(&got, "id = ?", p.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.StockQuantity != 35 {
		t.Fatalf("expected stock 35 got %d", got.StockQuantity)
	}
	// untouched fields survive the merge
	if got.Name != "Milk" || got.Price != 2.5 || got.Currency != "USD" {
		t.Fatalf("partial update clobbered fields: %+v", got)
	}
}

func TestProductUpdateBadJSON(t *testing.T) {
	db := setupTestDB(t)
	h := newTestHandler(t, db)
	p := models.Product{Name: "Rice", Price: 3, StockQuantity: 5}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := httptest.NewRecorder()
	h.Update(w, patchRequest(t, p.ID, `{"price": "abc"}`))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
	var got models.Product
	db.First(&got, "id = ?", p.ID)
	if got.Price != 3 {
		t.Fatalf("expected price untouched, got %v", got.Price)
	}
}

func imageForm(t *testing.T, fields map[string]string, imageName string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("field: %v", err)
		}
	}
	part, err := mw.CreateFormFile("image", imageName)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write([]byte("fake-image-bytes")); err != nil {
		t.Fatalf("write image: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestProductUpdateReplaceImage(t *testing.T) {
	db := setupTestDB(t)
	h := newTestHandler(t, db)
	p := models.Product{Name: "Mug", Price: 8, StockQuantity: 12, ImagePath: "/uploads/old-mug.png"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	body, ct := imageForm(t, map[string]string{"price": "9.5"}, "new-mug.png")
	req := httptest.NewRequest(http.MethodPatch, "/products/"+p.ID, body)
	req.Header.Set("Content-Type", ct)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("productID", p.ID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()
	h.Update(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var got models.Product
	if err := db.First(&got, "id = ?", p.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.ImagePath == "/uploads/old-mug.png" {
		t.Fatal("expected image path replaced")
	}
	if !strings.HasPrefix(got.ImagePath, "/uploads/") || !strings.HasSuffix(got.ImagePath, "new-mug.png") {
		t.Fatalf("unexpected image path: %s", got.ImagePath)
	}
	if got.Price != 9.5 {
		t.Fatalf("expected price 9.5 got %v", got.Price)
	}
	// untouched fields survive alongside the image swap
	if got.Name != "Mug" || got.StockQuantity != 12 {
		t.Fatalf("image patch clobbered fields: %+v", got)
	}
}

func TestProductCreateWithLongImageName(t *testing.T) {
	db := setupTestDB(t)
	h := newTestHandler(t, db)

	body, ct := imageForm(t, map[string]string{
		"name":          "Poster",
		"price":         "4",
		"stockQuantity": "9",
	}, "b."+strings.Repeat("a", 90))
	req := httptest.NewRequest(http.MethodPost, "/products", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.Product
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(created.ImagePath, "/uploads/") {
		t.Fatalf("unexpected image path: %s", created.ImagePath)
	}
}

func TestProductCreateWithImage(t *testing.T) {
	db := setupTestDB(t)
	h := newTestHandler(t, db)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{"name": "Photo Mug", "price": "8", "stockQuantity": "12"} {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("field: %v", err)
		}
	}
	part, err := mw.CreateFormFile("image", "mug.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write([]byte("not-a-real-png")); err != nil {
		t.Fatalf("write image: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/products", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.Product
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(created.ImagePath, "/uploads/") || !strings.HasSuffix(created.ImagePath, "mug.png") {
		t.Fatalf("unexpected image path: %s", created.ImagePath)
	}
}
