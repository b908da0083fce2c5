package cart

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-api/internal/domain/product"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&product.Category{},
		&product.Product{},
		&CartItem{},
	))

	return db
}

func createProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *product.Product {
	t.Helper()

	p := &product.Product{
		Name:          name,
		Price:         price,
		StockQuantity: stock,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestStoreAddItemMergesExistingRow(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	p := createProduct(t, db, "Widget", 9.99, 100)

	require.NoError(t, store.AddItem(1, p.ID, 2))
	require.NoError(t, store.AddItem(1, p.ID, 3))

	var items []CartItem
	require.NoError(t, db.Where("user_id = ?", 1).Find(&items).Error)
	require.Len(t, items, 1)
	require.Equal(t, 5, items[0].Quantity)
}

func TestStoreAddItemSeparateRowsPerProduct(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	p1 := createProduct(t, db, "Widget", 9.99, 100)
	p2 := createProduct(t, db, "Gadget", 19.99, 100)

	require.NoError(t, store.AddItem(1, p1.ID, 1))
	require.NoError(t, store.AddItem(1, p2.ID, 1))

	var count int64
	require.NoError(t, db.Model(&CartItem{}).Where("user_id = ?", 1).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestStoreLinesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	p1 := createProduct(t, db, "Older", 5.00, 10)
	p2 := createProduct(t, db, "Newer", 7.00, 10)

	now := time.Now().UTC()
	require.NoError(t, db.Create(&CartItem{
		UserID: 1, ProductID: p1.ID, Quantity: 1, CreatedAt: now.Add(-time.Hour),
	}).Error)
	require.NoError(t, db.Create(&CartItem{
		UserID: 1, ProductID: p2.ID, Quantity: 2, CreatedAt: now,
	}).Error)

	lines, err := store.Lines(1)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, "Newer", lines[0].ProductName)
	require.Equal(t, "Older", lines[1].ProductName)
	require.InDelta(t, 14.0, lines[0].ItemTotal, 1e-9)
}

func TestStoreLinesScopedToUser(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	p := createProduct(t, db, "Widget", 9.99, 100)

	require.NoError(t, store.AddItem(1, p.ID, 1))
	require.NoError(t, store.AddItem(2, p.ID, 4))

	lines, err := store.Lines(1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, 1, lines[0].Quantity)
}

func TestStoreUpdateQuantityMissingRow(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	err := store.UpdateQuantity(999, 3)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestStoreRemoveMissingRow(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	err := store.Remove(999)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestStoreClearIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	p := createProduct(t, db, "Widget", 9.99, 100)

	require.NoError(t, store.AddItem(1, p.ID, 2))
	require.NoError(t, store.Clear(1))
	require.NoError(t, store.Clear(1))

	var count int64
	require.NoError(t, db.Model(&CartItem{}).Where("user_id = ?", 1).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestStoreTotalEmptyCartIsZero(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	total, err := store.Total(1)
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestStoreTotalSumsPriceTimesQuantity(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	p1 := createProduct(t, db, "Widget", 10.00, 100)
	p2 := createProduct(t, db, "Gadget", 5.00, 100)

	require.NoError(t, store.AddItem(1, p1.ID, 2))
	require.NoError(t, store.AddItem(1, p2.ID, 3))

	total, err := store.Total(1)
	require.NoError(t, err)
	require.InDelta(t, 35.0, total, 1e-9)
}

func TestStoreStockShortfalls(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	ok := createProduct(t, db, "Plenty", 10.00, 100)
	low := createProduct(t, db, "Scarce", 5.00, 2)

	require.NoError(t, store.AddItem(1, ok.ID, 3))
	require.NoError(t, db.Create(&CartItem{UserID: 1, ProductID: low.ID, Quantity: 4}).Error)

	shortfalls, err := store.StockShortfalls(1)
	require.NoError(t, err)
	require.Len(t, shortfalls, 1)
	require.Equal(t, low.ID, shortfalls[0].ProductID)
	require.Equal(t, "Scarce", shortfalls[0].ProductName)
	require.Equal(t, 4, shortfalls[0].RequestedQuantity)
	require.Equal(t, 2, shortfalls[0].AvailableQuantity)
}

func TestStoreStockShortfallsAllSatisfiable(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	p := createProduct(t, db, "Widget", 9.99, 10)

	require.NoError(t, store.AddItem(1, p.ID, 10))

	shortfalls, err := store.StockShortfalls(1)
	require.NoError(t, err)
	require.Empty(t, shortfalls)
}
