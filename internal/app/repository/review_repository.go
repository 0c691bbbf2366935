package repository

import (
	"github.com/dchukwu/shoplane-backend/internal/app/model"
	"github.com/dchukwu/shoplane-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByProductID(productID uuid.UUID) ([]model.Review, error)
	FindByID(id uint) (*model.Review, error)
	Update(review *model.Review) error
	Delete(id uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"product_id": review.ProductID,
		"author_id":  review.AuthorID,
	})

	if err := r.db.Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"product_id": review.ProductID,
			"author_id":  review.AuthorID,
		})
		return err
	}

	logger.Debug("Review created in database", map[string]interface{}{
		"review_id": review.ID,
	})
	return nil
}

func (r *reviewRepository) FindByProductID(productID uuid.UUID) ([]model.Review, error) {
	logger.Debug("Finding reviews by product ID in database", map[string]interface{}{
		"product_id": productID,
	})

	var reviews []model.Review
	err := r.db.Where("product_id = ?", productID).
		Preload("Author").
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to find reviews by product ID in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	logger.Debug("Reviews found by product ID in database", map[string]interface{}{
		"product_id": productID,
		"count":      len(reviews),
	})
	return reviews, nil
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	logger.Debug("Finding review by ID in database", map[string]interface{}{
		"review_id": id,
	})

	var review model.Review
	if err := r.db.Preload("Author").First(&review, id).Error; err != nil {
		logger.Error("Failed to find review by ID in database", err, map[string]interface{}{
			"review_id": id,
		})
		return nil, err
	}

	return &review, nil
}

func (r *reviewRepository) Update(review *model.Review) error {
	logger.Debug("Updating review in database", map[string]interface{}{
		"review_id": review.ID,
	})

	if err := r.db.Save(review).Error; err != nil {
		logger.Error("Failed to update review in database", err, map[string]interface{}{
			"review_id": review.ID,
		})
		return err
	}

	return nil
}

func (r *reviewRepository) Delete(id uint) error {
	logger.Debug("Deleting review from database", map[string]interface{}{
		"review_id": id,
	})

	if err := r.db.Delete(&model.Review{}, id).Error; err != nil {
		logger.Error("Failed to delete review from database", err, map[string]interface{}{
			"review_id": id,
		})
		return err
	}

	return nil
}
