package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dchukwu/shoplane-backend/internal/app/service"
	apperrors "github.com/dchukwu/shoplane-backend/internal/errors"
	"github.com/dchukwu/shoplane-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// CreateCart opens a new anonymous cart
// POST /api/v1/carts
func (ctrl *CartController) CreateCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cart, err := ctrl.cartService.CreateCart()
	if err != nil {
		log.Error("Failed to create cart", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"cart": cart})
}

// GetCart returns a cart with item totals
// GET /api/v1/carts/:id
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cartID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart ID")
		return
	}

	summary, err := ctrl.cartService.GetCart(cartID)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
			return
		}
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"cart_id": cartID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart":        summary.Cart,
		"item_count":  summary.ItemCount,
		"total_price": summary.TotalPrice,
	})
}

// ListItems returns the lines of a cart
// GET /api/v1/carts/:id/items
func (ctrl *CartController) ListItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cartID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart ID")
		return
	}

	summary, err := ctrl.cartService.GetCart(cartID)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
			return
		}
		log.Error("Failed to fetch cart items", err, map[string]interface{}{
			"cart_id": cartID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_items": summary.Cart.CartItems,
		"count":      len(summary.Cart.CartItems),
	})
}

// AddItem adds a product to the cart, merging duplicate lines
// POST /api/v1/carts/:id/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cartID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart ID")
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"cart_id": cartID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid cart item data")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	item, err := ctrl.cartService.AddItem(cartID, productID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartNotFound):
			apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Quantity must be positive")
		default:
			// A dangling product ID surfaces here as a constraint violation
			info := apperrors.ParseError(err, "product")
			if info.Code == apperrors.ProductNotFound || info.Code == apperrors.ResourceNotFound {
				apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
				return
			}
			log.Error("Failed to add cart item", err, map[string]interface{}{
				"cart_id":    cartID,
				"product_id": productID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"cart_item": item})
}

// UpdateItem replaces a cart item's quantity
// PATCH /api/v1/carts/:id/items/:item_id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cartID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart ID")
		return
	}

	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart item ID")
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid cart item data")
		return
	}

	item, err := ctrl.cartService.UpdateItemQuantity(cartID, uint(itemID), req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound):
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Quantity must be positive")
		default:
			log.Error("Failed to update cart item", err, map[string]interface{}{
				"cart_id":      cartID,
				"cart_item_id": itemID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart_item": item})
}

// RemoveItem deletes a single cart line
// DELETE /api/v1/carts/:id/items/:item_id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cartID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart ID")
		return
	}

	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart item ID")
		return
	}

	if err := ctrl.cartService.RemoveItem(cartID, uint(itemID)); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
			return
		}
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"cart_id":      cartID,
			"cart_item_id": itemID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
}

// DeleteCart discards the whole cart
// DELETE /api/v1/carts/:id
func (ctrl *CartController) DeleteCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cartID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart ID")
		return
	}

	if err := ctrl.cartService.DeleteCart(cartID); err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
			return
		}
		log.Error("Failed to delete cart", err, map[string]interface{}{
			"cart_id": cartID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart deleted"})
}
