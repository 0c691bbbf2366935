package service

import (
	"bytes"
	"testing"

	"github.com/dchukwu/shoplane-backend/internal/app/model"
	"github.com/dchukwu/shoplane-backend/internal/app/repository"
	"github.com/dchukwu/shoplane-backend/internal/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (*gorm.DB, ProductService, model.Category) {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	category := model.Category{Title: "Home Office"}
	require.NoError(t, testDB.Create(&category).Error)

	svc := NewProductService(repository.NewProductRepository(testDB), repository.NewCategoryRepository(testDB))
	return testDB, svc, category
}

func TestProductServiceCreate(t *testing.T) {
	_, svc, category := setupProductServiceTest(t)

	product, err := svc.CreateProduct(CreateProductInput{
		Name:       "Ergonomic Chair",
		OldPrice:   200,
		Discount:   true,
		Inventory:  5,
		CategoryID: &category.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, "ergonomic-chair", product.Slug)
	assert.InDelta(t, 140, product.Price(), 0.0001)
}

func TestProductServiceCreateWithMissingCategory(t *testing.T) {
	_, svc, _ := setupProductServiceTest(t)

	missing := uuid.New()
	_, err := svc.CreateProduct(CreateProductInput{Name: "Orphan", OldPrice: 10, CategoryID: &missing})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestProductServiceUpdate(t *testing.T) {
	_, svc, _ := setupProductServiceTest(t)

	product, err := svc.CreateProduct(CreateProductInput{Name: "Standing Desk", OldPrice: 300})
	require.NoError(t, err)

	newName := "Adjustable Standing Desk"
	discount := true
	updated, err := svc.UpdateProduct(product.ID, UpdateProductInput{Name: &newName, Discount: &discount})
	require.NoError(t, err)

	// Slug follows the renamed product
	assert.Equal(t, "adjustable-standing-desk", updated.Slug)
	assert.InDelta(t, 210, updated.Price(), 0.0001)
}

func TestProductServiceGetProductsFiltered(t *testing.T) {
	_, svc, category := setupProductServiceTest(t)

	_, err := svc.CreateProduct(CreateProductInput{Name: "Monitor Arm", OldPrice: 80, CategoryID: &category.ID, TopDeal: true})
	require.NoError(t, err)
	_, err = svc.CreateProduct(CreateProductInput{Name: "Cable Tray", OldPrice: 20, CategoryID: &category.ID})
	require.NoError(t, err)
	_, err = svc.CreateProduct(CreateProductInput{Name: "Floor Mat", OldPrice: 30})
	require.NoError(t, err)

	byCategory, err := svc.GetProducts(repository.ProductFilter{CategoryID: &category.ID})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	topDeal := true
	deals, err := svc.GetProducts(repository.ProductFilter{TopDeal: &topDeal})
	require.NoError(t, err)
	assert.Len(t, deals, 1)
	assert.Equal(t, "Monitor Arm", deals[0].Name)

	search, err := svc.GetProducts(repository.ProductFilter{Search: "tray"})
	require.NoError(t, err)
	assert.Len(t, search, 1)

	sorted, err := svc.GetProducts(repository.ProductFilter{SortBy: repository.ProductSortPrice, SortAscending: true})
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Equal(t, "Cable Tray", sorted[0].Name)
}

func TestProductServiceDelete(t *testing.T) {
	_, svc, _ := setupProductServiceTest(t)

	product, err := svc.CreateProduct(CreateProductInput{Name: "Disposable", OldPrice: 5})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(product.ID))

	_, err = svc.GetProductByID(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	err = svc.DeleteProduct(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductServiceExportProducts(t *testing.T) {
	_, svc, category := setupProductServiceTest(t)

	_, err := svc.CreateProduct(CreateProductInput{Name: "Desk Organizer", OldPrice: 25, Discount: true, CategoryID: &category.ID})
	require.NoError(t, err)

	data, err := svc.ExportProducts()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Name", rows[0][1])
	assert.Equal(t, "Desk Organizer", rows[1][1])
	assert.Equal(t, "desk-organizer", rows[1][2])
}
