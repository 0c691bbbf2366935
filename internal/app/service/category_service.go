package service

import (
	"errors"

	"github.com/dchukwu/shoplane-backend/internal/app/model"
	"github.com/dchukwu/shoplane-backend/internal/app/repository"
	"github.com/dchukwu/shoplane-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryService interface {
	CreateCategory(title string) (*model.Category, error)
	GetAllCategories() ([]model.Category, error)
	GetCategoryByID(id uuid.UUID) (*model.Category, error)
	UpdateCategory(id uuid.UUID, title string) (*model.Category, error)
	DeleteCategory(id uuid.UUID) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) CreateCategory(title string) (*model.Category, error) {
	logger.Info("Creating category", map[string]interface{}{
		"title": title,
	})

	category := &model.Category{Title: title}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
	})
	return category, nil
}

func (s *categoryService) GetAllCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *categoryService) GetCategoryByID(id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) UpdateCategory(id uuid.UUID, title string) (*model.Category, error) {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return nil, err
	}

	category.Title = title
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}

	logger.Info("Category updated", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
	})
	return category, nil
}

func (s *categoryService) DeleteCategory(id uuid.UUID) error {
	if _, err := s.GetCategoryByID(id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(id)
}
