package model

import (
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Category struct {
	ID    uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Title string    `gorm:"not null" json:"title"`
	Slug  string    `gorm:"index" json:"slug"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the slug derived from the title
func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.Slug = slug.Make(c.Title)
	return nil
}
