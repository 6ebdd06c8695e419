package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// ListKind selects the table behind a RecipeListService.
type ListKind struct {
	// Label names the list in conflict messages.
	Label  string
	model  func() interface{}
	newRow func(userID, recipeID uint) interface{}
}

var (
	// Favorites is the user's favorite recipes.
	Favorites = ListKind{
		Label:  "favorites",
		model:  func() interface{} { return &models.Favorite{} },
		newRow: func(userID, recipeID uint) interface{} { return &models.Favorite{UserID: userID, RecipeID: recipeID} },
	}
	// ShoppingCart is the user's shopping cart.
	ShoppingCart = ListKind{
		Label: "shopping cart",
		model: func() interface{} { return &models.ShoppingCart{} },
		newRow: func(userID, recipeID uint) interface{} {
			return &models.ShoppingCart{UserID: userID, RecipeID: recipeID}
		},
	}
)

// RecipeListService adds and removes recipes on one kind of per-user list.
type RecipeListService struct {
	db   *gorm.DB
	kind ListKind
}

// Ensure RecipeListService implements IRecipeListService
var _ IRecipeListService = (*RecipeListService)(nil)

// NewRecipeListService creates a RecipeListService for kind
func NewRecipeListService(db *gorm.DB, kind ListKind) *RecipeListService {
	return &RecipeListService{db: db, kind: kind}
}

// Add puts the recipe on the user's list. A second Add of the same pair is a
// conflict; the store's unique index settles concurrent adds.
func (s *RecipeListService) Add(ctx context.Context, user *models.User, recipeID uint) (*types.RecipeSummary, error) {
	recipe, err := findRecipe(ctx, s.db, recipeID)
	if err != nil {
		return nil, err
	}
	exists, err := s.exists(ctx, user.ID, recipe.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, s.alreadyAdded(user, recipe)
	}
	if err := s.db.WithContext(ctx).Create(s.kind.newRow(user.ID, recipe.ID)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.alreadyAdded(user, recipe)
		}
		return nil, fmt.Errorf("failed to add recipe to %s: %w", s.kind.Label, err)
	}
	return Summarize(recipe), nil
}

// Remove takes the recipe off the user's list.
func (s *RecipeListService) Remove(ctx context.Context, user *models.User, recipeID uint) error {
	recipe, err := findRecipe(ctx, s.db, recipeID)
	if err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).
		Delete(s.kind.model())
	if result.Error != nil {
		return fmt.Errorf("failed to remove recipe from %s: %w", s.kind.Label, result.Error)
	}
	if result.RowsAffected == 0 {
		return &ConflictError{Message: fmt.Sprintf("%s is not in the %s of %s", recipe.Name, s.kind.Label, user.Username)}
	}
	return nil
}

func (s *RecipeListService) exists(ctx context.Context, userID, recipeID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(s.kind.model()).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", s.kind.Label, err)
	}
	return count > 0, nil
}

func (s *RecipeListService) alreadyAdded(user *models.User, recipe *models.Recipe) error {
	return &ConflictError{Message: fmt.Sprintf("%s is already in the %s of %s", recipe.Name, s.kind.Label, user.Username)}
}

func findRecipe(ctx context.Context, db *gorm.DB, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("recipe", id)
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}

// Summarize projects a recipe to its short form.
func Summarize(recipe *models.Recipe) *types.RecipeSummary {
	return &types.RecipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}
