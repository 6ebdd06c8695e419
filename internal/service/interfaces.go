package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	GenerateToken(user *models.User) (string, error)
}

// IUserService defines the interface for account operations
type IUserService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context, page types.Pagination) ([]models.User, int64, error)
	SetPassword(ctx context.Context, user *models.User, current, next string) error
}

// ICatalogService defines the read-only tag and ingredient lookups
type ICatalogService interface {
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error)
	ListTags(ctx context.Context, slugs []string) ([]models.Tag, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
	SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, author *models.User, req *types.RecipeRequest) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, author *models.User, id uint, req *types.RecipeRequest) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, author *models.User, id uint) error
	GetRecipe(ctx context.Context, id uint) (*models.Recipe, error)
	ListRecipes(ctx context.Context, viewer *models.User, filter types.RecipeFilter, page types.Pagination) ([]models.Recipe, int64, error)
}

// IRecipeListService defines add/remove over a per-user recipe list
type IRecipeListService interface {
	Add(ctx context.Context, user *models.User, recipeID uint) (*types.RecipeSummary, error)
	Remove(ctx context.Context, user *models.User, recipeID uint) error
}

// IFollowService defines subscription operations
type IFollowService interface {
	Follow(ctx context.Context, user *models.User, authorID uint, recipesLimit int) (*types.SubscriptionResponse, error)
	Unfollow(ctx context.Context, user *models.User, authorID uint) error
	Subscriptions(ctx context.Context, user *models.User, page types.Pagination, recipesLimit int) ([]types.SubscriptionResponse, int64, error)
}

// IShoppingListService defines the shopping cart export
type IShoppingListService interface {
	Items(ctx context.Context, user *models.User) ([]ShoppingListItem, error)
	Render(ctx context.Context, user *models.User) (string, error)
}
