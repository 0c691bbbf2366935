package service

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dchukwu/shoplane-backend/internal/app/model"
	"github.com/dchukwu/shoplane-backend/internal/app/repository"
	"github.com/dchukwu/shoplane-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

type CreateProductInput struct {
	Name        string
	Description string
	OldPrice    float64
	Discount    bool
	Inventory   int
	CategoryID  *uuid.UUID
	TopDeal     bool
	FlashSales  bool
	ImageURL    string
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	OldPrice    *float64
	Discount    *bool
	Inventory   *int
	CategoryID  *uuid.UUID
	TopDeal     *bool
	FlashSales  *bool
	ImageURL    *string
}

type ProductService interface {
	CreateProduct(input CreateProductInput) (*model.Product, error)
	GetProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
	UpdateProduct(id uuid.UUID, input UpdateProductInput) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	ExportProducts() ([]byte, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) CreateProduct(input CreateProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":        input.Name,
		"category_id": input.CategoryID,
	})

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
	}

	product := &model.Product{
		Name:        input.Name,
		Description: input.Description,
		OldPrice:    input.OldPrice,
		Discount:    input.Discount,
		Inventory:   input.Inventory,
		CategoryID:  input.CategoryID,
		TopDeal:     input.TopDeal,
		FlashSales:  input.FlashSales,
		ImageURL:    input.ImageURL,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return product, nil
}

func (s *productService) GetProducts(filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindWithFilter(filter)
}

func (s *productService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) UpdateProduct(id uuid.UUID, input UpdateProductInput) (*model.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.OldPrice != nil {
		product.OldPrice = *input.OldPrice
	}
	if input.Discount != nil {
		product.Discount = *input.Discount
	}
	if input.Inventory != nil {
		product.Inventory = *input.Inventory
	}
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}
	if input.TopDeal != nil {
		product.TopDeal = *input.TopDeal
	}
	if input.FlashSales != nil {
		product.FlashSales = *input.FlashSales
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return product, nil
}

func (s *productService) DeleteProduct(id uuid.UUID) error {
	if _, err := s.GetProductByID(id); err != nil {
		return err
	}
	return s.productRepo.Delete(id)
}

// ExportProducts renders the full catalog as an XLSX workbook
func (s *productService) ExportProducts() ([]byte, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"ID", "Name", "Slug", "Category", "Old Price", "Discount", "Price", "Inventory", "Top Deal", "Flash Sales"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, product := range products {
		categoryTitle := ""
		if product.Category != nil {
			categoryTitle = product.Category.Title
		}
		values := []interface{}{
			product.ID.String(),
			product.Name,
			product.Slug,
			categoryTitle,
			product.OldPrice,
			product.Discount,
			product.Price(),
			product.Inventory,
			product.TopDeal,
			product.FlashSales,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write catalog workbook: %w", err)
	}

	logger.Info("Catalog exported", map[string]interface{}{
		"product_count": len(products),
	})
	return buf.Bytes(), nil
}
