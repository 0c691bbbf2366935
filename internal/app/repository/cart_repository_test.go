package repository

import (
	"testing"
	"time"

	"github.com/dchukwu/shoplane-backend/internal/app/model"
	"github.com/dchukwu/shoplane-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartRepoTest(t *testing.T) (*gorm.DB, CartRepository, model.Product) {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	product := model.Product{Name: "Wireless Mouse", OldPrice: 40, Discount: true}
	require.NoError(t, testDB.Create(&product).Error)

	return testDB, NewCartRepository(testDB), product
}

func TestCartRepositoryCreateAndFind(t *testing.T) {
	_, repo, product := setupCartRepoTest(t)

	cart := model.Cart{}
	require.NoError(t, repo.Create(&cart))
	require.NotEqual(t, cart.ID.String(), "00000000-0000-0000-0000-000000000000")

	item := model.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 2}
	require.NoError(t, repo.CreateItem(&item))

	found, err := repo.FindByID(cart.ID)
	require.NoError(t, err)
	assert.Len(t, found.CartItems, 1)
	assert.Equal(t, 2, found.CartItems[0].Quantity)
	assert.Equal(t, product.Name, found.CartItems[0].Product.Name)
}

func TestCartRepositoryFindItemByCartAndProduct(t *testing.T) {
	_, repo, product := setupCartRepoTest(t)

	cart := model.Cart{}
	require.NoError(t, repo.Create(&cart))

	_, err := repo.FindItemByCartAndProduct(cart.ID, product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	item := model.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 1}
	require.NoError(t, repo.CreateItem(&item))

	found, err := repo.FindItemByCartAndProduct(cart.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
}

func TestCartRepositoryDeleteRemovesItems(t *testing.T) {
	testDB, repo, product := setupCartRepoTest(t)

	cart := model.Cart{}
	require.NoError(t, repo.Create(&cart))
	require.NoError(t, repo.CreateItem(&model.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 1}))

	require.NoError(t, repo.Delete(cart.ID))

	_, err := repo.FindByID(cart.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var itemCount int64
	require.NoError(t, testDB.Model(&model.CartItem{}).Where("cart_id = ?", cart.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)
}

func TestCartRepositoryDeleteOlderThan(t *testing.T) {
	testDB, repo, product := setupCartRepoTest(t)

	stale := model.Cart{}
	require.NoError(t, repo.Create(&stale))
	require.NoError(t, repo.CreateItem(&model.CartItem{CartID: stale.ID, ProductID: product.ID, Quantity: 1}))

	fresh := model.Cart{}
	require.NoError(t, repo.Create(&fresh))

	// Backdate the stale cart past the cutoff
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, testDB.Model(&model.Cart{}).Where("id = ?", stale.ID).Update("updated_at", old).Error)

	deleted, err := repo.DeleteOlderThan(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.FindByID(stale.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindByID(fresh.ID)
	assert.NoError(t, err)
}
