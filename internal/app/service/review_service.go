package service

import (
	"errors"

	"github.com/dchukwu/shoplane-backend/internal/app/model"
	"github.com/dchukwu/shoplane-backend/internal/app/repository"
	"github.com/dchukwu/shoplane-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound     = errors.New("review not found")
	ErrReviewAccessDenied = errors.New("review can only be modified by its author")
)

type ReviewService interface {
	CreateReview(productID uuid.UUID, authorID uint, content string) (*model.Review, error)
	GetProductReviews(productID uuid.UUID) ([]model.Review, error)
	GetReviewByID(id uint) (*model.Review, error)
	UpdateReview(id uint, requesterID uint, requesterIsAdmin bool, content string) (*model.Review, error)
	DeleteReview(id uint, requesterID uint, requesterIsAdmin bool) error
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

func (s *reviewService) CreateReview(productID uuid.UUID, authorID uint, content string) (*model.Review, error) {
	logger.Info("Creating review", map[string]interface{}{
		"product_id": productID,
		"author_id":  authorID,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	review := &model.Review{
		ProductID: productID,
		AuthorID:  authorID,
		Content:   content,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	return s.reviewRepo.FindByID(review.ID)
}

func (s *reviewService) GetProductReviews(productID uuid.UUID) ([]model.Review, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.reviewRepo.FindByProductID(productID)
}

func (s *reviewService) GetReviewByID(id uint) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) UpdateReview(id uint, requesterID uint, requesterIsAdmin bool, content string) (*model.Review, error) {
	review, err := s.GetReviewByID(id)
	if err != nil {
		return nil, err
	}

	if review.AuthorID != requesterID && !requesterIsAdmin {
		logger.Warn("Review update denied", map[string]interface{}{
			"review_id":    id,
			"author_id":    review.AuthorID,
			"requester_id": requesterID,
		})
		return nil, ErrReviewAccessDenied
	}

	review.Content = content
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}

	logger.Info("Review updated", map[string]interface{}{
		"review_id": review.ID,
	})
	return review, nil
}

func (s *reviewService) DeleteReview(id uint, requesterID uint, requesterIsAdmin bool) error {
	review, err := s.GetReviewByID(id)
	if err != nil {
		return err
	}

	if review.AuthorID != requesterID && !requesterIsAdmin {
		logger.Warn("Review delete denied", map[string]interface{}{
			"review_id":    id,
			"author_id":    review.AuthorID,
			"requester_id": requesterID,
		})
		return ErrReviewAccessDenied
	}

	return s.reviewRepo.Delete(id)
}
