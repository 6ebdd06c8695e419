package service

import (
	"context"
	"fmt"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// Presenter renders models into API projections. Viewer-dependent flags are
// resolved for a whole batch with one query per flag.
type Presenter struct {
	db *gorm.DB
}

// NewPresenter creates a new Presenter
func NewPresenter(db *gorm.DB) *Presenter {
	return &Presenter{db: db}
}

// Recipe renders a single recipe for viewer (nil when anonymous).
func (p *Presenter) Recipe(ctx context.Context, viewer *models.User, recipe *models.Recipe) (*types.RecipeResponse, error) {
	out, err := p.Recipes(ctx, viewer, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Recipes renders a batch of recipes loaded with their aggregate.
func (p *Presenter) Recipes(ctx context.Context, viewer *models.User, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID)
		authorIDs = append(authorIDs, recipe.AuthorID)
	}

	var favorited, inCart, subscribed map[uint]bool
	if viewer != nil && len(recipes) > 0 {
		var err error
		if favorited, err = p.memberOf(ctx, &models.Favorite{}, "recipe_id", viewer.ID, recipeIDs); err != nil {
			return nil, err
		}
		if inCart, err = p.memberOf(ctx, &models.ShoppingCart{}, "recipe_id", viewer.ID, recipeIDs); err != nil {
			return nil, err
		}
		if subscribed, err = p.memberOf(ctx, &models.Follow{}, "author_id", viewer.ID, authorIDs); err != nil {
			return nil, err
		}
	}

	out := make([]types.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		resp := types.RecipeResponse{
			ID:               recipe.ID,
			Tags:             make([]types.TagResponse, 0, len(recipe.RecipeTags)),
			Author:           userResponse(&recipe.Author, subscribed[recipe.AuthorID]),
			Ingredients:      make([]types.RecipeIngredientResponse, 0, len(recipe.RecipeIngredients)),
			IsFavorited:      favorited[recipe.ID],
			IsInShoppingCart: inCart[recipe.ID],
			Name:             recipe.Name,
			Image:            recipe.Image,
			Text:             recipe.Text,
			CookingTime:      recipe.CookingTime,
		}
		for _, rt := range recipe.RecipeTags {
			resp.Tags = append(resp.Tags, TagResponse(&rt.Tag))
		}
		for _, ri := range recipe.RecipeIngredients {
			resp.Ingredients = append(resp.Ingredients, types.RecipeIngredientResponse{
				ID:              ri.Ingredient.ID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			})
		}
		out = append(out, resp)
	}
	return out, nil
}

// User renders one user for viewer.
func (p *Presenter) User(ctx context.Context, viewer *models.User, user *models.User) (*types.UserResponse, error) {
	out, err := p.Users(ctx, viewer, []models.User{*user})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Users renders a batch of users with is_subscribed resolved for viewer.
func (p *Presenter) Users(ctx context.Context, viewer *models.User, users []models.User) ([]types.UserResponse, error) {
	var subscribed map[uint]bool
	if viewer != nil && len(users) > 0 {
		ids := make([]uint, len(users))
		for i := range users {
			ids[i] = users[i].ID
		}
		var err error
		if subscribed, err = p.memberOf(ctx, &models.Follow{}, "author_id", viewer.ID, ids); err != nil {
			return nil, err
		}
	}
	out := make([]types.UserResponse, len(users))
	for i := range users {
		out[i] = userResponse(&users[i], subscribed[users[i].ID])
	}
	return out, nil
}

// memberOf returns which of ids appear in column of the user's rows in model.
func (p *Presenter) memberOf(ctx context.Context, model interface{}, column string, userID uint, ids []uint) (map[uint]bool, error) {
	var hits []uint
	err := p.db.WithContext(ctx).Model(model).
		Where("user_id = ?", userID).
		Where(column+" IN ?", ids).
		Pluck(column, &hits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s flags: %w", column, err)
	}
	set := make(map[uint]bool, len(hits))
	for _, id := range hits {
		set[id] = true
	}
	return set, nil
}

func userResponse(user *models.User, subscribed bool) types.UserResponse {
	return types.UserResponse{
		Email:        user.Email,
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}

// TagResponse projects a tag.
func TagResponse(tag *models.Tag) types.TagResponse {
	return types.TagResponse{ID: tag.ID, Name: tag.Name, Color: tag.Color, Slug: tag.Slug}
}

// IngredientResponse projects a catalog ingredient.
func IngredientResponse(ingredient *models.Ingredient) types.IngredientResponse {
	return types.IngredientResponse{ID: ingredient.ID, Name: ingredient.Name, MeasurementUnit: ingredient.MeasurementUnit}
}
