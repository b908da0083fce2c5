package cart

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-api/internal/config"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	return NewService(db, &config.Config{}), db
}

func TestAddToCartUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddToCart(1, &AddToCartRequest{ProductID: 999, Quantity: 1})
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddToCartWithinStock(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, "Widget", 10.00, 5)

	view, err := svc.AddToCart(1, &AddToCartRequest{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, 3, view.Items[0].Quantity)
}

func TestAddToCartExceedsStock(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, "Widget", 10.00, 5)

	_, err := svc.AddToCart(1, &AddToCartRequest{ProductID: p.ID, Quantity: 6})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, 5, stockErr.Available)
	require.Equal(t, 6, stockErr.Requested)
}

func TestAddToCartMergedQuantityExceedsStock(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, "Widget", 10.00, 5)

	_, err := svc.AddToCart(1, &AddToCartRequest{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	// Second add would merge to 6 against a stock of 5
	_, err = svc.AddToCart(1, &AddToCartRequest{ProductID: p.ID, Quantity: 3})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, 5, stockErr.Available)
	require.Equal(t, 6, stockErr.Requested)

	// The failed add must not have changed the cart
	view, err := svc.GetCart(1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, 3, view.Items[0].Quantity)
}

func TestAddToCartMergeInvariant(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, "Widget", 10.00, 100)

	_, err := svc.AddToCart(1, &AddToCartRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	view, err := svc.AddToCart(1, &AddToCartRequest{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, 5, view.Items[0].Quantity)
}

func TestGetCartEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	view, err := svc.GetCart(1)
	require.NoError(t, err)
	require.NotNil(t, view.Items)
	require.Empty(t, view.Items)
	require.Equal(t, 0, view.Summary.TotalItems)
	require.Zero(t, view.Summary.TotalPrice)
}

func TestGetCartSummary(t *testing.T) {
	svc, db := newTestService(t)
	p1 := createProduct(t, db, "Widget", 10.00, 100)
	p2 := createProduct(t, db, "Gadget", 5.00, 100)

	_, err := svc.AddToCart(1, &AddToCartRequest{ProductID: p1.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddToCart(1, &AddToCartRequest{ProductID: p2.ID, Quantity: 3})
	require.NoError(t, err)

	view, err := svc.GetCart(1)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	require.Equal(t, 5, view.Summary.TotalItems)
	require.InDelta(t, 35.0, view.Summary.TotalPrice, 1e-9)
}

func TestUpdateItemOwnershipEnforced(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, "Widget", 10.00, 100)

	_, err := svc.AddToCart(1, &AddToCartRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	var item CartItem
	require.NoError(t, db.Where("user_id = ?", 1).First(&item).Error)

	// A different user cannot touch the row
	_, err = svc.UpdateItem(2, item.ID, &UpdateItemRequest{Quantity: 1})
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestUpdateItemStockChecked(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, "Widget", 10.00, 5)

	_, err := svc.AddToCart(1, &AddToCartRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	var item CartItem
	require.NoError(t, db.Where("user_id = ?", 1).First(&item).Error)

	_, err = svc.UpdateItem(1, item.ID, &UpdateItemRequest{Quantity: 6})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, 5, stockErr.Available)

	view, err := svc.UpdateItem(1, item.ID, &UpdateItemRequest{Quantity: 5})
	require.NoError(t, err)
	require.Equal(t, 5, view.Items[0].Quantity)
}

func TestRemoveItemTwice(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, "Widget", 10.00, 100)

	_, err := svc.AddToCart(1, &AddToCartRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	var item CartItem
	require.NoError(t, db.Where("user_id = ?", 1).First(&item).Error)

	require.NoError(t, svc.RemoveItem(1, item.ID))
	require.ErrorIs(t, svc.RemoveItem(1, item.ID), ErrItemNotFound)
}

func TestClearCartEmptyCart(t *testing.T) {
	svc, _ := newTestService(t)

	require.NoError(t, svc.ClearCart(1))

	view, err := svc.GetCart(1)
	require.NoError(t, err)
	require.Empty(t, view.Items)
}

func TestCheckStockValidCart(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, "Widget", 10.00, 5)

	_, err := svc.AddToCart(1, &AddToCartRequest{ProductID: p.ID, Quantity: 5})
	require.NoError(t, err)

	result, err := svc.CheckStock(1)
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Empty(t, result.Shortfalls)
}

func TestCheckStockReportsShortfallAfterStockDrop(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, "Widget", 10.00, 5)

	_, err := svc.AddToCart(1, &AddToCartRequest{ProductID: p.ID, Quantity: 5})
	require.NoError(t, err)

	// Stock dropped after the item was added
	require.NoError(t, db.Model(p).Update("stock_quantity", 2).Error)

	result, err := svc.CheckStock(1)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Len(t, result.Shortfalls, 1)
	require.Equal(t, p.ID, result.Shortfalls[0].ProductID)
	require.Equal(t, 5, result.Shortfalls[0].RequestedQuantity)
	require.Equal(t, 2, result.Shortfalls[0].AvailableQuantity)
}
