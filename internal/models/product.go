package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reference tables served to the catalog dropdowns. Products store the
// names denormalized so a later rename does not rewrite history.
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;unique" json:"name"`
	DefaultUnit string `json:"defaultUnit"` // ex: pcs, kg, liters
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type StockUnit struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"not null;unique" json:"name"`
	Symbol    string `json:"symbol"` // ex: pcs, kg, L
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"not null;index" json:"name"`
	Price         float64   `gorm:"not null" json:"price"`
	Currency      string    `json:"currency"`
	StockQuantity int       `gorm:"not null" json:"stockQuantity"`
	StockUnit     string    `json:"stockUnit"`
	Category      string    `gorm:"index" json:"category"`
	Rating        float64   `json:"rating"` // 0..5
	ImagePath     string    `json:"imagePath"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
