package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID               uint            `gorm:"primarykey" json:"id"`                              // product ID
	Name             string          `gorm:"type:varchar(150);not null" json:"name"`            // display name
	Price            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`          // current unit price
	Category         string          `gorm:"type:varchar(100);not null;index" json:"category"`  // free-text category tag
	ShortDescription *string         `gorm:"type:varchar(255)" json:"short_description,omitempty"`
	Description      *string         `gorm:"type:text" json:"description,omitempty"`
	Image            *string         `gorm:"type:varchar(255)" json:"image,omitempty"` // path under the upload dir
	Notes            *string         `gorm:"type:varchar(255)" json:"notes,omitempty"`
	Volume           *string         `gorm:"type:varchar(50)" json:"volume,omitempty"`
	SkinType         *string         `gorm:"type:varchar(100)" json:"skin_type,omitempty"`
	Audience         *string         `gorm:"type:varchar(50)" json:"audience,omitempty"`
	Stock            int             `gorm:"not null;default:0" json:"stock"` // informational only
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`

	Reviews []Review `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

func (Product) TableName() string {
	return "products"
}
