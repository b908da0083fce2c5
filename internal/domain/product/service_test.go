package product

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-api/internal/config"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&Category{}, &Product{}, &Review{}))

	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	return NewService(db, &config.Config{}), db
}

func seedProducts(t *testing.T, svc *Service, products ...ProductCreateRequest) {
	t.Helper()

	for i := range products {
		_, err := svc.CreateProduct(&products[i])
		require.NoError(t, err)
	}
}

func TestGetProductNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetProduct(999)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateAndGetProduct(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateProduct(&ProductCreateRequest{
		Name:          "Widget",
		Description:   "A widget",
		Price:         19.99,
		StockQuantity: 7,
	})
	require.NoError(t, err)

	got, err := svc.GetProduct(created.ID)
	require.NoError(t, err)
	require.Equal(t, "Widget", got.Name)
	require.InDelta(t, 19.99, got.Price, 1e-9)
	require.Equal(t, 7, got.StockQuantity)
}

func TestGetProductsSearch(t *testing.T) {
	svc, _ := newTestService(t)
	seedProducts(t, svc,
		ProductCreateRequest{Name: "Blue Widget", Price: 10},
		ProductCreateRequest{Name: "Red Widget", Price: 12},
		ProductCreateRequest{Name: "Gadget", Description: "widget adjacent", Price: 8},
		ProductCreateRequest{Name: "Doohickey", Price: 5},
	)

	// Case-insensitive match over name and description
	resp, err := svc.GetProducts(&ProductListRequest{Search: "WIDGET", Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, resp.Records, 3)
	require.EqualValues(t, 3, resp.Paging.TotalRows)
}

func TestGetProductsPagination(t *testing.T) {
	svc, _ := newTestService(t)
	seedProducts(t, svc,
		ProductCreateRequest{Name: "A", Price: 1},
		ProductCreateRequest{Name: "B", Price: 2},
		ProductCreateRequest{Name: "C", Price: 3},
		ProductCreateRequest{Name: "D", Price: 4},
		ProductCreateRequest{Name: "E", Price: 5},
	)

	resp, err := svc.GetProducts(&ProductListRequest{Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, resp.Records, 2)
	require.Equal(t, 2, resp.Paging.CurrentPage)
	require.EqualValues(t, 5, resp.Paging.TotalRows)
	require.Equal(t, 3, resp.Paging.TotalPages)
}

func TestGetProductsDefaultsInvalidPaging(t *testing.T) {
	svc, _ := newTestService(t)
	seedProducts(t, svc, ProductCreateRequest{Name: "A", Price: 1})

	resp, err := svc.GetProducts(&ProductListRequest{Page: -3, PerPage: 500})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Paging.CurrentPage)
	require.Equal(t, 10, resp.Paging.PerPage)
}

func TestGetProductsFilterByCategory(t *testing.T) {
	svc, db := newTestService(t)

	cat := Category{Name: "Tools"}
	require.NoError(t, db.Create(&cat).Error)

	seedProducts(t, svc,
		ProductCreateRequest{Name: "Hammer", Price: 10, CategoryID: &cat.ID},
		ProductCreateRequest{Name: "Teapot", Price: 8},
	)

	resp, err := svc.GetProducts(&ProductListRequest{CategoryID: cat.ID, Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	require.Equal(t, "Hammer", resp.Records[0].Name)
}

func TestUpdateProductPartial(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateProduct(&ProductCreateRequest{
		Name:          "Widget",
		Price:         10.00,
		StockQuantity: 5,
	})
	require.NoError(t, err)

	newPrice := 12.50
	updated, err := svc.UpdateProduct(created.ID, &ProductUpdateRequest{Price: &newPrice})
	require.NoError(t, err)
	require.InDelta(t, 12.50, updated.Price, 1e-9)
	// Untouched fields keep their values
	require.Equal(t, "Widget", updated.Name)
	require.Equal(t, 5, updated.StockQuantity)
}

func TestUpdateProductNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	name := "Nope"
	_, err := svc.UpdateProduct(999, &ProductUpdateRequest{Name: &name})
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateProduct(&ProductCreateRequest{Name: "Widget", Price: 10})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(created.ID))
	require.ErrorIs(t, svc.DeleteProduct(created.ID), ErrProductNotFound)

	_, err = svc.GetProduct(created.ID)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateStock(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateProduct(&ProductCreateRequest{Name: "Widget", Price: 10, StockQuantity: 5})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStock(created.ID, 0))

	got, err := svc.GetProduct(created.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.StockQuantity)
	require.False(t, got.IsInStock())

	require.Error(t, svc.UpdateStock(created.ID, -1))
	require.ErrorIs(t, svc.UpdateStock(999, 3), ErrProductNotFound)
}
