// Package client is the typed HTTP client for the product resource; the
// cart and restock workflows talk to the backend only through it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/diewo77/pos-app/internal/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: 15 * time.Second}}
}

// NewWithHTTPClient lets tests inject the httptest client.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, http: hc}
}

// APIError carries the backend's error envelope along with the status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (c *Client) decodeError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}

// List fetches products, optionally filtered by a name substring.
func (c *Client) List(ctx context.Context, search string) ([]models.Product, error) {
	u := c.baseURL + "/products"
	if search != "" {
		u += "?search=" + url.QueryEscape(search)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}
	var products []models.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// CreateInput is the multipart form for POST /products. Image is optional.
type CreateInput struct {
	Name          string
	Price         float64
	StockQuantity int
	Currency      string
	StockUnit     string
	Category      string
	Rating        float64
	ImageName     string
	Image         io.Reader
}

func (c *Client) Create(ctx context.Context, in CreateInput) (*models.Product, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":          in.Name,
		"price":         strconv.FormatFloat(in.Price, 'f', -1, 64),
		"stockQuantity": strconv.Itoa(in.StockQuantity),
	}
	if in.Currency != "" {
		fields["currency"] = in.Currency
	}
	if in.StockUnit != "" {
		fields["stockUnit"] = in.StockUnit
	}
	if in.Category != "" {
		fields["category"] = in.Category
	}
	if in.Rating != 0 {
		fields["rating"] = strconv.FormatFloat(in.Rating, 'f', -1, 64)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if in.Image != nil {
		part, err := mw.CreateFormFile("image", in.ImageName)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, in.Image); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/products", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return nil, c.decodeError(resp)
	}
	var p models.Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	return &p, nil
}

// Patch holds the optional fields for PATCH /products/{id}. Nil fields
// are left untouched server-side.
type Patch struct {
	Name          *string  `json:"name,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Currency      *string  `json:"currency,omitempty"`
	StockQuantity *int     `json:"stockQuantity,omitempty"`
	StockUnit     *string  `json:"stockUnit,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
}

func (c *Client) Update(ctx context.Context, id string, patch Patch) (*models.Product, error) {
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/products/"+url.PathEscape(id), bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}
	var p models.Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	return &p, nil
}

// UpdateWithImage sends a multipart PATCH replacing fields plus the image.
func (c *Client) UpdateWithImage(ctx context.Context, id string, fields map[string]string, imageName string, image io.Reader) (*models.Product, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if image != nil {
		part, err := mw.CreateFormFile("image", imageName)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, image); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/products/"+url.PathEscape(id), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}
	var p models.Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	return &p, nil
}

// AdjustStock issues the restock PATCH: stockQuantity = current + delta
// computed from the caller's snapshot. No server-side atomic increment
// exists; concurrent adjusters can clobber each other.
func (c *Client) AdjustStock(ctx context.Context, id string, newQuantity int) (*models.Product, error) {
	return c.Update(ctx, id, Patch{StockQuantity: &newQuantity})
}
