package repository

import (
	"github.com/dchukwu/shoplane-backend/internal/app/model"
	"github.com/dchukwu/shoplane-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindAll() ([]model.Category, error)
	FindByID(id uuid.UUID) (*model.Category, error)
	FindBySlug(slug string) (*model.Category, error)
	Update(category *model.Category) error
	Delete(id uuid.UUID) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"title": category.Title,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"title": category.Title,
		})
		return err
	}

	logger.Debug("Category created in database", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
	})
	return nil
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	logger.Debug("Finding all categories in database", nil)

	var categories []model.Category
	if err := r.db.Order("title ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to find categories in database", err)
		return nil, err
	}

	logger.Debug("Categories found in database", map[string]interface{}{
		"count": len(categories),
	})
	return categories, nil
}

func (r *categoryRepository) FindByID(id uuid.UUID) (*model.Category, error) {
	logger.Debug("Finding category by ID in database", map[string]interface{}{
		"category_id": id,
	})

	var category model.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		logger.Error("Failed to find category by ID in database", err, map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}

	return &category, nil
}

func (r *categoryRepository) FindBySlug(slug string) (*model.Category, error) {
	logger.Debug("Finding category by slug in database", map[string]interface{}{
		"slug": slug,
	})

	var category model.Category
	if err := r.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		logger.Error("Failed to find category by slug in database", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}

	return &category, nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	logger.Debug("Updating category in database", map[string]interface{}{
		"category_id": category.ID,
		"title":       category.Title,
	})

	if err := r.db.Save(category).Error; err != nil {
		logger.Error("Failed to update category in database", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}

	return nil
}

func (r *categoryRepository) Delete(id uuid.UUID) error {
	logger.Debug("Deleting category from database", map[string]interface{}{
		"category_id": id,
	})

	if err := r.db.Delete(&model.Category{}, "id = ?", id).Error; err != nil {
		logger.Error("Failed to delete category from database", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}

	return nil
}
