package repository

import (
	"time"

	"github.com/dchukwu/shoplane-backend/internal/app/model"
	"github.com/dchukwu/shoplane-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(cart *model.Cart) error
	FindByID(id uuid.UUID) (*model.Cart, error)
	Delete(id uuid.UUID) error
	DeleteOlderThan(cutoff time.Time) (int64, error)

	CreateItem(item *model.CartItem) error
	FindItemByID(id uint) (*model.CartItem, error)
	FindItemByCartAndProduct(cartID, productID uuid.UUID) (*model.CartItem, error)
	UpdateItem(item *model.CartItem) error
	DeleteItem(id uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(cart *model.Cart) error {
	logger.Debug("Creating cart in database", nil)

	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err)
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
	})
	return nil
}

func (r *cartRepository) FindByID(id uuid.UUID) (*model.Cart, error) {
	logger.Debug("Finding cart by ID in database", map[string]interface{}{
		"cart_id": id,
	})

	var cart model.Cart
	err := r.db.Preload("CartItems").
		Preload("CartItems.Product").
		First(&cart, "id = ?", id).Error
	if err != nil {
		logger.Error("Failed to find cart by ID in database", err, map[string]interface{}{
			"cart_id": id,
		})
		return nil, err
	}

	logger.Debug("Cart found by ID in database", map[string]interface{}{
		"cart_id": cart.ID,
		"items":   len(cart.CartItems),
	})
	return &cart, nil
}

func (r *cartRepository) Delete(id uuid.UUID) error {
	logger.Debug("Deleting cart from database", map[string]interface{}{
		"cart_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Cart{}, "id = ?", id).Error
	})
	if err != nil {
		logger.Error("Failed to delete cart from database", err, map[string]interface{}{
			"cart_id": id,
		})
		return err
	}

	return nil
}

func (r *cartRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	logger.Debug("Deleting stale carts from database", map[string]interface{}{
		"cutoff": cutoff,
	})

	var staleIDs []uuid.UUID
	if err := r.db.Model(&model.Cart{}).
		Where("updated_at < ?", cutoff).
		Pluck("id", &staleIDs).Error; err != nil {
		logger.Error("Failed to list stale carts in database", err)
		return 0, err
	}

	if len(staleIDs) == 0 {
		return 0, nil
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id IN ?", staleIDs).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", staleIDs).Delete(&model.Cart{}).Error
	})
	if err != nil {
		logger.Error("Failed to delete stale carts from database", err, map[string]interface{}{
			"count": len(staleIDs),
		})
		return 0, err
	}

	logger.Debug("Stale carts deleted from database", map[string]interface{}{
		"count": len(staleIDs),
	})
	return int64(len(staleIDs)), nil
}

func (r *cartRepository) CreateItem(item *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}

	logger.Debug("Cart item created in database", map[string]interface{}{
		"cart_item_id": item.ID,
		"cart_id":      item.CartID,
	})
	return nil
}

func (r *cartRepository) FindItemByID(id uint) (*model.CartItem, error) {
	logger.Debug("Finding cart item by ID in database", map[string]interface{}{
		"cart_item_id": id,
	})

	var item model.CartItem
	if err := r.db.Preload("Product").First(&item, id).Error; err != nil {
		logger.Error("Failed to find cart item by ID in database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return nil, err
	}

	return &item, nil
}

func (r *cartRepository) FindItemByCartAndProduct(cartID, productID uuid.UUID) (*model.CartItem, error) {
	logger.Debug("Finding cart item by cart and product in database", map[string]interface{}{
		"cart_id":    cartID,
		"product_id": productID,
	})

	var item model.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		logger.Error("Failed to find cart item by cart and product in database", err, map[string]interface{}{
			"cart_id":    cartID,
			"product_id": productID,
		})
		return nil, err
	}

	return &item, nil
}

func (r *cartRepository) UpdateItem(item *model.CartItem) error {
	logger.Debug("Updating cart item in database", map[string]interface{}{
		"cart_item_id": item.ID,
		"quantity":     item.Quantity,
	})

	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update cart item in database", err, map[string]interface{}{
			"cart_item_id": item.ID,
		})
		return err
	}

	return nil
}

func (r *cartRepository) DeleteItem(id uint) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"cart_item_id": id,
	})

	if err := r.db.Delete(&model.CartItem{}, id).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return err
	}

	return nil
}
