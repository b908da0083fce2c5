package product

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-api/internal/config"
)

func newCategoryTestService(t *testing.T) *CategoryService {
	t.Helper()
	return NewCategoryService(newTestDB(t), &config.Config{})
}

func TestGetCategoriesOrderedByName(t *testing.T) {
	svc := newCategoryTestService(t)

	for _, name := range []string{"Tools", "Books", "Electronics"} {
		_, err := svc.CreateCategory(&CategoryCreateRequest{Name: name})
		require.NoError(t, err)
	}

	categories, err := svc.GetCategories()
	require.NoError(t, err)
	require.Len(t, categories, 3)
	require.Equal(t, "Books", categories[0].Name)
	require.Equal(t, "Electronics", categories[1].Name)
	require.Equal(t, "Tools", categories[2].Name)
}

func TestGetCategoryNotFound(t *testing.T) {
	svc := newCategoryTestService(t)

	_, err := svc.GetCategory(999)
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUpdateCategory(t *testing.T) {
	svc := newCategoryTestService(t)

	created, err := svc.CreateCategory(&CategoryCreateRequest{Name: "Toosl", Description: "typo"})
	require.NoError(t, err)

	updated, err := svc.UpdateCategory(created.ID, &CategoryUpdateRequest{Name: "Tools", Description: "fixed"})
	require.NoError(t, err)
	require.Equal(t, "Tools", updated.Name)
	require.Equal(t, "fixed", updated.Description)

	_, err = svc.UpdateCategory(999, &CategoryUpdateRequest{Name: "X"})
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteCategory(t *testing.T) {
	svc := newCategoryTestService(t)

	created, err := svc.CreateCategory(&CategoryCreateRequest{Name: "Tools"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(created.ID))
	require.ErrorIs(t, svc.DeleteCategory(created.ID), ErrCategoryNotFound)
}
