package service

import (
	"testing"

	"github.com/dchukwu/shoplane-backend/internal/app/model"
	"github.com/dchukwu/shoplane-backend/internal/app/repository"
	"github.com/dchukwu/shoplane-backend/internal/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderServiceFixture struct {
	db       *gorm.DB
	orders   OrderService
	carts    CartService
	user     model.User
	products []model.Product
}

func setupOrderServiceTest(t *testing.T) orderServiceFixture {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	user := model.User{Email: "shopper@example.com", Username: "shopper", PasswordHash: "x"}
	require.NoError(t, testDB.Create(&user).Error)

	products := []model.Product{
		{Name: "Headphones", OldPrice: 100, Discount: true},
		{Name: "Keyboard", OldPrice: 50, Discount: false},
	}
	for i := range products {
		require.NoError(t, testDB.Create(&products[i]).Error)
	}

	cartRepo := repository.NewCartRepository(testDB)
	return orderServiceFixture{
		db:       testDB,
		orders:   NewOrderService(repository.NewOrderRepository(testDB), cartRepo, testDB),
		carts:    NewCartService(cartRepo),
		user:     user,
		products: products,
	}
}

func TestOrderServiceCheckout(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart, err := f.carts.CreateCart()
	require.NoError(t, err)
	_, err = f.carts.AddItem(cart.ID, f.products[0].ID, 2) // 70 each
	require.NoError(t, err)
	_, err = f.carts.AddItem(cart.ID, f.products[1].ID, 1) // 50
	require.NoError(t, err)

	order, err := f.orders.Checkout(f.user.ID, CheckoutInput{
		CartID:          cart.ID,
		ShippingAddress: "12 Marina Road, Lagos",
		PaymentMethod:   "card",
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, f.user.ID, order.UserID)
	assert.Len(t, order.OrderItems, 2)
	assert.InDelta(t, 190, order.TotalAmount, 0.0001)

	// Discounted unit price was snapshotted
	for _, item := range order.OrderItems {
		if item.ProductID == f.products[0].ID {
			assert.InDelta(t, 70, item.UnitPrice, 0.0001)
		}
	}

	// The cart was consumed
	_, err = f.carts.GetCart(cart.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestOrderServiceCheckoutPriceSnapshotSurvivesChanges(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart, err := f.carts.CreateCart()
	require.NoError(t, err)
	_, err = f.carts.AddItem(cart.ID, f.products[1].ID, 1)
	require.NoError(t, err)

	order, err := f.orders.Checkout(f.user.ID, CheckoutInput{CartID: cart.ID})
	require.NoError(t, err)

	// Raise the product price after checkout
	require.NoError(t, f.db.Model(&model.Product{}).Where("id = ?", f.products[1].ID).Update("old_price", 500).Error)

	reloaded, err := f.orders.GetOrderByID(order.ID, f.user.ID, false)
	require.NoError(t, err)
	require.Len(t, reloaded.OrderItems, 1)
	assert.InDelta(t, 50, reloaded.OrderItems[0].UnitPrice, 0.0001)
	assert.InDelta(t, 50, reloaded.TotalAmount, 0.0001)
}

func TestOrderServiceCheckoutMissingCart(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.orders.Checkout(f.user.ID, CheckoutInput{CartID: uuid.New()})
	assert.ErrorIs(t, err, ErrCartNotFound)

	// Nothing was committed
	var orderCount int64
	require.NoError(t, f.db.Model(&model.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestOrderServiceCheckoutEmptyCart(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart, err := f.carts.CreateCart()
	require.NoError(t, err)

	order, err := f.orders.Checkout(f.user.ID, CheckoutInput{CartID: cart.ID})
	require.NoError(t, err)

	assert.Empty(t, order.OrderItems)
	assert.Zero(t, order.TotalAmount)

	_, err = f.carts.GetCart(cart.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestOrderServiceGetOrderByIDOwnership(t *testing.T) {
	f := setupOrderServiceTest(t)

	other := model.User{Email: "intruder@example.com", Username: "intruder", PasswordHash: "x"}
	require.NoError(t, f.db.Create(&other).Error)

	cart, err := f.carts.CreateCart()
	require.NoError(t, err)
	_, err = f.carts.AddItem(cart.ID, f.products[0].ID, 1)
	require.NoError(t, err)

	order, err := f.orders.Checkout(f.user.ID, CheckoutInput{CartID: cart.ID})
	require.NoError(t, err)

	_, err = f.orders.GetOrderByID(order.ID, other.ID, false)
	assert.ErrorIs(t, err, ErrOrderAccessDenied)

	// Admins can read any order
	fetched, err := f.orders.GetOrderByID(order.ID, other.ID, true)
	require.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)
}

func TestOrderServiceGetUserOrders(t *testing.T) {
	f := setupOrderServiceTest(t)

	for i := 0; i < 2; i++ {
		cart, err := f.carts.CreateCart()
		require.NoError(t, err)
		_, err = f.carts.AddItem(cart.ID, f.products[0].ID, 1)
		require.NoError(t, err)
		_, err = f.orders.Checkout(f.user.ID, CheckoutInput{CartID: cart.ID})
		require.NoError(t, err)
	}

	orders, err := f.orders.GetUserOrders(f.user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestOrderServiceUpdateOrderStatus(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart, err := f.carts.CreateCart()
	require.NoError(t, err)
	_, err = f.carts.AddItem(cart.ID, f.products[0].ID, 1)
	require.NoError(t, err)

	order, err := f.orders.Checkout(f.user.ID, CheckoutInput{CartID: cart.ID})
	require.NoError(t, err)

	updated, err := f.orders.UpdateOrderStatus(order.ID, model.OrderStatusCompleted, "TRK-1042")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, updated.Status)
	assert.Equal(t, "TRK-1042", updated.TrackingNumber)

	_, err = f.orders.UpdateOrderStatus(uuid.New(), model.OrderStatusFailed, "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
