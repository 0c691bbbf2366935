package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dchukwu/shoplane-backend/config"
	"github.com/dchukwu/shoplane-backend/internal/app/model"
	"github.com/dchukwu/shoplane-backend/internal/app/repository"
	"github.com/dchukwu/shoplane-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports a product catalog from an XLSX workbook. Expected columns:
// Name, Description, Old Price, Discount, Inventory, Category, Top Deal, Flash Sales, Image URL
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readCatalogRows(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(rows))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// Categories are deduplicated by title across the workbook
	categories := make(map[string]*model.Category)
	imported := 0
	skipped := 0

	for i, row := range rows {
		product, categoryTitle, err := parseProductRow(row)
		if err != nil {
			fmt.Printf("Skipping row %d: %v\n", i+2, err)
			skipped++
			continue
		}

		if categoryTitle != "" {
			category, ok := categories[categoryTitle]
			if !ok {
				category, err = findOrCreateCategory(categoryRepo, categoryTitle)
				if err != nil {
					log.Fatal("Failed to resolve category:", err)
				}
				categories[categoryTitle] = category
			}
			product.CategoryID = &category.ID
		}

		if err := productRepo.Create(product); err != nil {
			fmt.Printf("Skipping row %d: %v\n", i+2, err)
			skipped++
			continue
		}
		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Imported: %d, skipped: %d, categories: %d\n", imported, skipped, len(categories))
}

func readCatalogRows(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows found in XLSX file")
	}

	// Drop the header row
	return rows[1:], nil
}

func parseProductRow(row []string) (*model.Product, string, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	name := cell(0)
	if name == "" {
		return nil, "", fmt.Errorf("missing product name")
	}

	oldPrice, err := strconv.ParseFloat(cell(2), 64)
	if err != nil {
		return nil, "", fmt.Errorf("invalid old price %q", cell(2))
	}

	inventory := 0
	if raw := cell(4); raw != "" {
		inventory, err = strconv.Atoi(raw)
		if err != nil {
			return nil, "", fmt.Errorf("invalid inventory %q", raw)
		}
	}

	product := &model.Product{
		Name:        name,
		Description: cell(1),
		OldPrice:    oldPrice,
		Discount:    parseBool(cell(3)),
		Inventory:   inventory,
		TopDeal:     parseBool(cell(6)),
		FlashSales:  parseBool(cell(7)),
		ImageURL:    cell(8),
	}
	return product, cell(5), nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "1":
		return true
	}
	return false
}

func findOrCreateCategory(repo repository.CategoryRepository, title string) (*model.Category, error) {
	existing, err := repo.FindAll()
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if strings.EqualFold(existing[i].Title, title) {
			return &existing[i], nil
		}
	}

	category := &model.Category{Title: title}
	if err := repo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}
