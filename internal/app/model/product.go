package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// discountRate is the flat reduction applied when a product is discounted
const discountRate = 0.30

type Product struct {
	ID          uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	OldPrice    float64        `gorm:"not null;default:0" json:"old_price"`
	Discount    bool           `gorm:"default:false" json:"discount"`
	Inventory   int            `gorm:"default:0" json:"inventory"`
	CategoryID  *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Slug        string         `gorm:"index" json:"slug"`
	TopDeal     bool           `gorm:"default:false" json:"top_deal"`
	FlashSales  bool           `gorm:"default:false" json:"flash_sales"`
	ImageURL    string         `json:"image_url"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Category   *Category   `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
	Reviews    []Review    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	CartItems  []CartItem  `gorm:"foreignKey:ProductID" json:"-"`
	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the slug derived from the name
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.Slug = slug.Make(p.Name)
	return nil
}

// Price is the effective selling price: OldPrice reduced by a flat 30%
// while the discount flag is on.
func (p *Product) Price() float64 {
	if p.Discount {
		return p.OldPrice - discountRate*p.OldPrice
	}
	return p.OldPrice
}

// MarshalJSON-friendly view including the derived price
type ProductResponse struct {
	Product
	Price float64 `json:"price"`
}

// ToResponse attaches the derived price for serialization
func (p Product) ToResponse() ProductResponse {
	return ProductResponse{
		Product: p,
		Price:   p.Price(),
	}
}
