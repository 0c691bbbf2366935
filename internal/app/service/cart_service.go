package service

import (
	"errors"
	"time"

	"github.com/dchukwu/shoplane-backend/internal/app/model"
	"github.com/dchukwu/shoplane-backend/internal/app/repository"
	"github.com/dchukwu/shoplane-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)

// CartSummary is a cart with derived totals attached
type CartSummary struct {
	Cart       *model.Cart `json:"cart"`
	ItemCount  int         `json:"item_count"`
	TotalPrice float64     `json:"total_price"`
}

type CartService interface {
	CreateCart() (*model.Cart, error)
	GetCart(cartID uuid.UUID) (*CartSummary, error)
	AddItem(cartID, productID uuid.UUID, quantity int) (*model.CartItem, error)
	UpdateItemQuantity(cartID uuid.UUID, itemID uint, quantity int) (*model.CartItem, error)
	RemoveItem(cartID uuid.UUID, itemID uint) error
	DeleteCart(cartID uuid.UUID) error
	PurgeStaleCarts(retention time.Duration) (int64, error)
}

type cartService struct {
	cartRepo repository.CartRepository
}

func NewCartService(cartRepo repository.CartRepository) CartService {
	return &cartService{cartRepo: cartRepo}
}

func (s *cartService) CreateCart() (*model.Cart, error) {
	cart := &model.Cart{}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}

	logger.Info("Cart created", map[string]interface{}{
		"cart_id": cart.ID,
	})
	return cart, nil
}

func (s *cartService) GetCart(cartID uuid.UUID) (*CartSummary, error) {
	cart, err := s.cartRepo.FindByID(cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	summary := &CartSummary{Cart: cart}
	for _, item := range cart.CartItems {
		summary.ItemCount += item.Quantity
		summary.TotalPrice += item.Subtotal()
	}
	return summary, nil
}

// AddItem merges into an existing line for the same product instead of
// creating a duplicate: quantities are summed. The product itself is
// not checked up front, a dangling product ID surfaces as a foreign
// key violation from the insert.
func (s *cartService) AddItem(cartID, productID uuid.UUID, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	logger.Info("Adding item to cart", map[string]interface{}{
		"cart_id":    cartID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if _, err := s.cartRepo.FindByID(cartID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	existing, err := s.cartRepo.FindItemByCartAndProduct(cartID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.Quantity += quantity
		if err := s.cartRepo.UpdateItem(existing); err != nil {
			return nil, err
		}
		logger.Info("Cart item quantity merged", map[string]interface{}{
			"cart_item_id": existing.ID,
			"quantity":     existing.Quantity,
		})
		return s.cartRepo.FindItemByID(existing.ID)
	}

	item := &model.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.cartRepo.CreateItem(item); err != nil {
		return nil, err
	}
	return s.cartRepo.FindItemByID(item.ID)
}

func (s *cartService) UpdateItemQuantity(cartID uuid.UUID, itemID uint, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.findOwnedItem(cartID, itemID)
	if err != nil {
		return nil, err
	}

	item.Quantity = quantity
	if err := s.cartRepo.UpdateItem(item); err != nil {
		return nil, err
	}

	logger.Info("Cart item quantity updated", map[string]interface{}{
		"cart_item_id": item.ID,
		"quantity":     item.Quantity,
	})
	return item, nil
}

func (s *cartService) RemoveItem(cartID uuid.UUID, itemID uint) error {
	item, err := s.findOwnedItem(cartID, itemID)
	if err != nil {
		return err
	}
	return s.cartRepo.DeleteItem(item.ID)
}

func (s *cartService) DeleteCart(cartID uuid.UUID) error {
	if _, err := s.cartRepo.FindByID(cartID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartNotFound
		}
		return err
	}
	return s.cartRepo.Delete(cartID)
}

// PurgeStaleCarts drops carts untouched for longer than the retention
// window. Abandoned anonymous carts accumulate otherwise.
func (s *cartService) PurgeStaleCarts(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	deleted, err := s.cartRepo.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		logger.Info("Stale carts purged", map[string]interface{}{
			"count":  deleted,
			"cutoff": cutoff,
		})
	}
	return deleted, nil
}

func (s *cartService) findOwnedItem(cartID uuid.UUID, itemID uint) (*model.CartItem, error) {
	item, err := s.cartRepo.FindItemByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	if item.CartID != cartID {
		return nil, ErrCartItemNotFound
	}
	return item, nil
}
