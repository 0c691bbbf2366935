package repository

import (
	"fmt"

	"github.com/dchukwu/shoplane-backend/internal/app/model"
	"github.com/dchukwu/shoplane-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "created_at"
)

type ProductFilter struct {
	CategoryID    *uuid.UUID
	CategorySlug  string
	Search        string
	TopDeal       *bool
	FlashSales    *bool
	SortBy        ProductSort
	SortAscending bool
	Limit         int
	Offset        int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":        product.Name,
		"category_id": product.CategoryID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name":        product.Name,
			"category_id": product.CategoryID,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return nil
}

func (r *productRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Product{}).Preload("Category")
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	return r.FindWithFilter(ProductFilter{})
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category_id":   filter.CategoryID,
		"category_slug": filter.CategorySlug,
		"search":        filter.Search,
		"top_deal":      filter.TopDeal,
		"flash_sales":   filter.FlashSales,
		"sort_by":       filter.SortBy,
		"limit":         filter.Limit,
		"offset":        filter.Offset,
	})

	query := r.baseQuery()

	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}

	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("products.name LIKE ? OR products.description LIKE ?", like, like)
	}

	if filter.TopDeal != nil {
		query = query.Where("products.top_deal = ?", *filter.TopDeal)
	}

	if filter.FlashSales != nil {
		query = query.Where("products.flash_sales = ?", *filter.FlashSales)
	}

	switch filter.SortBy {
	case ProductSortPrice:
		direction := "DESC"
		if filter.SortAscending {
			direction = "ASC"
		}
		query = query.Order("products.old_price " + direction)
	case ProductSortCreatedAt:
		fallthrough
	default:
		direction := "DESC"
		if filter.SortAscending {
			direction = "ASC"
		}
		query = query.Order("products.created_at " + direction)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id uuid.UUID) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.baseQuery().First(&product, "products.id = ?", id).Error; err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	logger.Debug("Finding product by slug in database", map[string]interface{}{
		"slug": slug,
	})

	var product model.Product
	if err := r.baseQuery().Where("products.slug = ?", slug).First(&product).Error; err != nil {
		logger.Error("Failed to find product by slug in database", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	return nil
}

func (r *productRepository) Delete(id uuid.UUID) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, "id = ?", id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	return nil
}
