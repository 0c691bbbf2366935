package service

import (
	"errors"
	"fmt"

	"github.com/dchukwu/shoplane-backend/internal/app/model"
	"github.com/dchukwu/shoplane-backend/internal/app/repository"
	"github.com/dchukwu/shoplane-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderAccessDenied = errors.New("order belongs to another user")
)

type CheckoutInput struct {
	CartID          uuid.UUID
	ShippingAddress string
	PaymentMethod   string
}

type OrderService interface {
	Checkout(userID uint, input CheckoutInput) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetAllOrders() ([]model.Order, error)
	GetOrderByID(orderID uuid.UUID, requesterID uint, requesterIsAdmin bool) (*model.Order, error)
	UpdateOrderStatus(orderID uuid.UUID, status model.OrderStatus, trackingNumber string) (*model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	db        *gorm.DB
}

func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, db *gorm.DB) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		db:        db,
	}
}

// Checkout converts a cart into a pending order in a single
// transaction. The cart row is locked so two concurrent checkouts of
// the same cart cannot both succeed: the loser finds the cart gone and
// rolls back. Unit prices are snapshotted onto the order items at this
// point.
func (s *orderService) Checkout(userID uint, input CheckoutInput) (*model.Order, error) {
	logger.Info("Starting checkout", map[string]interface{}{
		"user_id": userID,
		"cart_id": input.CartID,
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during checkout, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
				"cart_id": input.CartID,
			})
		}
	}()

	var cart model.Cart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("CartItems").
		Preload("CartItems.Product").
		First(&cart, "id = ?", input.CartID).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Checkout failed: cart not found", map[string]interface{}{
				"user_id": userID,
				"cart_id": input.CartID,
			})
			return nil, ErrCartNotFound
		}
		logger.Error("Failed to fetch cart during checkout", err, map[string]interface{}{
			"cart_id": input.CartID,
		})
		return nil, err
	}

	order := &model.Order{
		UserID:          userID,
		Status:          model.OrderStatusPending,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
	}
	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order during checkout", err, map[string]interface{}{
			"user_id": userID,
			"cart_id": input.CartID,
		})
		return nil, err
	}

	var totalAmount float64
	for _, cartItem := range cart.CartItems {
		orderItem := model.OrderItem{
			OrderID:   order.ID,
			ProductID: cartItem.ProductID,
			Quantity:  cartItem.Quantity,
			UnitPrice: cartItem.Product.Price(),
		}
		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to create order item during checkout", err, map[string]interface{}{
				"order_id":   order.ID,
				"product_id": cartItem.ProductID,
			})
			return nil, err
		}
		totalAmount += orderItem.Subtotal()
	}

	if err := tx.Model(order).Update("total_amount", totalAmount).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to set order total during checkout", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	// Consume the cart: items first, then the cart row
	if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to clear cart items during checkout", err, map[string]interface{}{
			"cart_id": cart.ID,
		})
		return nil, err
	}
	if err := tx.Delete(&model.Cart{}, "id = ?", cart.ID).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to delete cart during checkout", err, map[string]interface{}{
			"cart_id": cart.ID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit checkout transaction", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("Checkout completed", map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      userID,
		"item_count":   len(cart.CartItems),
		"total_amount": totalAmount,
	})
	return s.orderRepo.FindByID(order.ID)
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	return s.orderRepo.FindByUserID(userID)
}

func (s *orderService) GetAllOrders() ([]model.Order, error) {
	return s.orderRepo.FindAll()
}

func (s *orderService) GetOrderByID(orderID uuid.UUID, requesterID uint, requesterIsAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID != requesterID && !requesterIsAdmin {
		logger.Warn("Order access denied", map[string]interface{}{
			"order_id":     orderID,
			"owner_id":     order.UserID,
			"requester_id": requesterID,
		})
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

func (s *orderService) UpdateOrderStatus(orderID uuid.UUID, status model.OrderStatus, trackingNumber string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order.Status = status
	if trackingNumber != "" {
		order.TrackingNumber = trackingNumber
	}
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})
	return order, nil
}
