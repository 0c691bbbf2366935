package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dchukwu/shoplane-backend/internal/app/model"
	"github.com/dchukwu/shoplane-backend/internal/app/repository"
	"github.com/dchukwu/shoplane-backend/internal/app/service"
	apperrors "github.com/dchukwu/shoplane-backend/internal/errors"
	"github.com/dchukwu/shoplane-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=200"`
	Description string  `json:"description"`
	OldPrice    float64 `json:"old_price" binding:"required,gt=0"`
	Discount    bool    `json:"discount"`
	Inventory   int     `json:"inventory" binding:"gte=0"`
	CategoryID  *string `json:"category_id"`
	TopDeal     bool    `json:"top_deal"`
	FlashSales  bool    `json:"flash_sales"`
	ImageURL    string  `json:"image_url"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	OldPrice    *float64 `json:"old_price"`
	Discount    *bool    `json:"discount"`
	Inventory   *int     `json:"inventory"`
	CategoryID  *string  `json:"category_id"`
	TopDeal     *bool    `json:"top_deal"`
	FlashSales  *bool    `json:"flash_sales"`
	ImageURL    *string  `json:"image_url"`
}

func toProductResponses(products []model.Product) []model.ProductResponse {
	responses := make([]model.ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, p.ToResponse())
	}
	return responses
}

// GetAllProducts lists products with optional filters
// GET /api/v1/products
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ProductFilter{
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
	}

	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
			return
		}
		filter.CategoryID = &id
	}

	if raw := c.Query("top_deal"); raw != "" {
		topDeal := raw == "true"
		filter.TopDeal = &topDeal
	}
	if raw := c.Query("flash_sales"); raw != "" {
		flashSales := raw == "true"
		filter.FlashSales = &flashSales
	}

	switch c.Query("sort") {
	case "price_asc":
		filter.SortBy = repository.ProductSortPrice
		filter.SortAscending = true
	case "price_desc":
		filter.SortBy = repository.ProductSortPrice
	case "oldest":
		filter.SortBy = repository.ProductSortCreatedAt
		filter.SortAscending = true
	default:
		filter.SortBy = repository.ProductSortCreatedAt
	}

	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset > 0 {
			filter.Offset = offset
		}
	}

	products, err := ctrl.productService.GetProducts(filter)
	if err != nil {
		log.Error("Failed to fetch products", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": toProductResponses(products),
		"count":    len(products),
	})
}

// GetProductByID returns a single product
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product.ToResponse()})
}

// CreateProduct creates a product (admin only)
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data")
		return
	}

	input := service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		OldPrice:    req.OldPrice,
		Discount:    req.Discount,
		Inventory:   req.Inventory,
		TopDeal:     req.TopDeal,
		FlashSales:  req.FlashSales,
		ImageURL:    req.ImageURL,
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
			return
		}
		input.CategoryID = &categoryID
	}

	product, err := ctrl.productService.CreateProduct(input)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		log.Error("Failed to create product", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product.ToResponse()})
}

// UpdateProduct updates a product (admin only)
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data")
		return
	}

	input := service.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		OldPrice:    req.OldPrice,
		Discount:    req.Discount,
		Inventory:   req.Inventory,
		TopDeal:     req.TopDeal,
		FlashSales:  req.FlashSales,
		ImageURL:    req.ImageURL,
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
			return
		}
		input.CategoryID = &categoryID
	}

	product, err := ctrl.productService.UpdateProduct(id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
		default:
			log.Error("Failed to update product", err, map[string]interface{}{
				"product_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product.ToResponse()})
}

// DeleteProduct deletes a product (admin only)
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// ExportProducts streams the catalog as an XLSX download (admin only)
// GET /api/v1/products/export
func (ctrl *ProductController) ExportProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	data, err := ctrl.productService.ExportProducts()
	if err != nil {
		log.Error("Failed to export catalog", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	filename := fmt.Sprintf("catalog-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
