package mocks

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockCatalogService is a mock implementation of the ICatalogService interface
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockCatalogService) GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockCatalogService) ListTags(ctx context.Context, slugs []string) ([]models.Tag, error) {
	args := m.Called(ctx, slugs)
	tags, _ := args.Get(0).([]models.Tag)
	return tags, args.Error(1)
}

func (m *MockCatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ingredient), args.Error(1)
}

func (m *MockCatalogService) SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	args := m.Called(ctx, prefix)
	ingredients, _ := args.Get(0).([]models.Ingredient)
	return ingredients, args.Error(1)
}

// MockRecipeListService is a mock implementation of the IRecipeListService interface
type MockRecipeListService struct {
	mock.Mock
}

func (m *MockRecipeListService) Add(ctx context.Context, user *models.User, recipeID uint) (*types.RecipeSummary, error) {
	args := m.Called(ctx, user, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeSummary), args.Error(1)
}

func (m *MockRecipeListService) Remove(ctx context.Context, user *models.User, recipeID uint) error {
	args := m.Called(ctx, user, recipeID)
	return args.Error(0)
}

// MockShoppingListService is a mock implementation of the IShoppingListService interface
type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) Items(ctx context.Context, user *models.User) ([]service.ShoppingListItem, error) {
	args := m.Called(ctx, user)
	items, _ := args.Get(0).([]service.ShoppingListItem)
	return items, args.Error(1)
}

func (m *MockShoppingListService) Render(ctx context.Context, user *models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
