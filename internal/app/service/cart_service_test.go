package service

import (
	"testing"
	"time"

	"github.com/dchukwu/shoplane-backend/internal/app/model"
	"github.com/dchukwu/shoplane-backend/internal/app/repository"
	"github.com/dchukwu/shoplane-backend/internal/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (*gorm.DB, CartService, model.Product) {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	product := model.Product{Name: "Desk Lamp", OldPrice: 100, Discount: true}
	require.NoError(t, testDB.Create(&product).Error)

	svc := NewCartService(repository.NewCartRepository(testDB))
	return testDB, svc, product
}

func TestCartServiceAddItemMergesDuplicates(t *testing.T) {
	_, svc, product := setupCartServiceTest(t)

	cart, err := svc.CreateCart()
	require.NoError(t, err)

	first, err := svc.AddItem(cart.ID, product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	second, err := svc.AddItem(cart.ID, product.ID, 3)
	require.NoError(t, err)

	// Same line item, summed quantity
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	summary, err := svc.GetCart(cart.ID)
	require.NoError(t, err)
	assert.Len(t, summary.Cart.CartItems, 1)
	assert.Equal(t, 5, summary.ItemCount)
}

func TestCartServiceGetCartTotals(t *testing.T) {
	testDB, svc, product := setupCartServiceTest(t)

	other := model.Product{Name: "Notebook", OldPrice: 10, Discount: false}
	require.NoError(t, testDB.Create(&other).Error)

	cart, err := svc.CreateCart()
	require.NoError(t, err)

	_, err = svc.AddItem(cart.ID, product.ID, 2) // 70 each
	require.NoError(t, err)
	_, err = svc.AddItem(cart.ID, other.ID, 1) // 10
	require.NoError(t, err)

	summary, err := svc.GetCart(cart.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.ItemCount)
	assert.InDelta(t, 150, summary.TotalPrice, 0.0001)
}

func TestCartServiceAddItemToMissingCart(t *testing.T) {
	_, svc, product := setupCartServiceTest(t)

	_, err := svc.AddItem(uuid.New(), product.ID, 1)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartServiceAddItemRejectsInvalidQuantity(t *testing.T) {
	_, svc, product := setupCartServiceTest(t)

	cart, err := svc.CreateCart()
	require.NoError(t, err)

	_, err = svc.AddItem(cart.ID, product.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddItem(cart.ID, product.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartServiceUpdateItemQuantity(t *testing.T) {
	_, svc, product := setupCartServiceTest(t)

	cart, err := svc.CreateCart()
	require.NoError(t, err)

	item, err := svc.AddItem(cart.ID, product.ID, 1)
	require.NoError(t, err)

	updated, err := svc.UpdateItemQuantity(cart.ID, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)
}

func TestCartServiceItemOwnershipEnforced(t *testing.T) {
	_, svc, product := setupCartServiceTest(t)

	cart, err := svc.CreateCart()
	require.NoError(t, err)
	otherCart, err := svc.CreateCart()
	require.NoError(t, err)

	item, err := svc.AddItem(cart.ID, product.ID, 1)
	require.NoError(t, err)

	// The item belongs to cart, not otherCart
	_, err = svc.UpdateItemQuantity(otherCart.ID, item.ID, 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	err = svc.RemoveItem(otherCart.ID, item.ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartServiceRemoveItem(t *testing.T) {
	_, svc, product := setupCartServiceTest(t)

	cart, err := svc.CreateCart()
	require.NoError(t, err)

	item, err := svc.AddItem(cart.ID, product.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(cart.ID, item.ID))

	summary, err := svc.GetCart(cart.ID)
	require.NoError(t, err)
	assert.Empty(t, summary.Cart.CartItems)
}

func TestCartServiceDeleteCart(t *testing.T) {
	_, svc, product := setupCartServiceTest(t)

	cart, err := svc.CreateCart()
	require.NoError(t, err)
	_, err = svc.AddItem(cart.ID, product.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCart(cart.ID))

	_, err = svc.GetCart(cart.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)

	err = svc.DeleteCart(cart.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartServicePurgeStaleCarts(t *testing.T) {
	testDB, svc, _ := setupCartServiceTest(t)

	stale, err := svc.CreateCart()
	require.NoError(t, err)
	fresh, err := svc.CreateCart()
	require.NoError(t, err)

	old := time.Now().Add(-72 * time.Hour)
	require.NoError(t, testDB.Model(&model.Cart{}).Where("id = ?", stale.ID).Update("updated_at", old).Error)

	deleted, err := svc.PurgeStaleCarts(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = svc.GetCart(stale.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)

	_, err = svc.GetCart(fresh.ID)
	assert.NoError(t, err)
}
