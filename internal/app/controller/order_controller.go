package controller

import (
	"errors"
	"net/http"

	"github.com/dchukwu/shoplane-backend/internal/app/model"
	"github.com/dchukwu/shoplane-backend/internal/app/service"
	apperrors "github.com/dchukwu/shoplane-backend/internal/errors"
	"github.com/dchukwu/shoplane-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type CheckoutRequest struct {
	CartID          string `json:"cart_id" binding:"required,uuid"`
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
}

type UpdateOrderStatusRequest struct {
	Status         string `json:"status" binding:"required,oneof=PENDING COMPLETED FAILED"`
	TrackingNumber string `json:"tracking_number"`
}

// Checkout converts a cart into an order
// POST /api/v1/orders/checkout
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid checkout data")
		return
	}

	cartID, err := uuid.Parse(req.CartID)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart ID")
		return
	}

	order, err := ctrl.orderService.Checkout(userID, service.CheckoutInput{
		CartID:          cartID,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
			return
		}
		log.Error("Checkout failed", err, map[string]interface{}{
			"user_id": userID,
			"cart_id": cartID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// GetOrders lists the caller's orders; admins see every order
// GET /api/v1/orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var (
		orders []model.Order
		err    error
	)
	if middleware.IsAdmin(c) {
		orders, err = ctrl.orderService.GetAllOrders()
	} else {
		orders, err = ctrl.orderService.GetUserOrders(userID)
	}
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrderByID returns a single order, owner or admin only
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(orderID, userID, middleware.IsAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrOrderAccessDenied):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAccessDenied, "Order belongs to another user")
		default:
			log.Error("Failed to fetch order", err, map[string]interface{}{
				"order_id": orderID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetOrderItems returns the lines of an order, owner or admin only
// GET /api/v1/orders/:id/items
func (ctrl *OrderController) GetOrderItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(orderID, userID, middleware.IsAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrOrderAccessDenied):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAccessDenied, "Order belongs to another user")
		default:
			log.Error("Failed to fetch order items", err, map[string]interface{}{
				"order_id": orderID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_items": order.OrderItems,
		"count":       len(order.OrderItems),
	})
}

// UpdateOrderStatus changes an order's status (admin only)
// PUT /api/v1/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid status data")
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(orderID, model.OrderStatus(req.Status), req.TrackingNumber)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": orderID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}
