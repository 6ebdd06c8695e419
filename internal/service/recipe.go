package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxQuantity bounds amounts and cooking times to the INTEGER columns.
const maxQuantity = math.MaxInt32

// RecipeService validates and writes the recipe aggregate and serves reads.
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
}

// Ensure RecipeService implements IRecipeService
var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance. images may be nil,
// in which case image payloads are rejected.
func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
	}
}

// recipeLines is a validated request: catalog rows resolved, in submitted order.
type recipeLines struct {
	ingredients []models.RecipeIngredient
	tags        []models.RecipeTag
}

// validate checks the request against the catalog. It never writes.
func (s *RecipeService) validate(ctx context.Context, req *types.RecipeRequest) (*recipeLines, error) {
	if len(req.Ingredients) == 0 {
		return nil, invalid("ingredients", "empty ingredient list")
	}
	ids := make([]uint, 0, len(req.Ingredients))
	for _, line := range req.Ingredients {
		ids = append(ids, line.ID)
	}
	var found []models.Ingredient
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve ingredients: %w", err)
	}
	catalog := make(map[uint]models.Ingredient, len(found))
	for _, ingredient := range found {
		catalog[ingredient.ID] = ingredient
	}

	lines := &recipeLines{}
	seen := make(map[uint]struct{}, len(req.Ingredients))
	for _, line := range req.Ingredients {
		ingredient, ok := catalog[line.ID]
		if !ok {
			return nil, notFound("ingredient", line.ID)
		}
		if _, dup := seen[line.ID]; dup {
			return nil, invalid("ingredients", "duplicate ingredient")
		}
		seen[line.ID] = struct{}{}
		if line.Amount < 1 {
			return nil, invalid("ingredients", "non-positive amount")
		}
		if line.Amount > maxQuantity {
			return nil, invalid("ingredients", fmt.Sprintf("amount must be ≤ %d", maxQuantity))
		}
		lines.ingredients = append(lines.ingredients, models.RecipeIngredient{
			IngredientID: ingredient.ID,
			Ingredient:   ingredient,
			Amount:       int(line.Amount),
		})
	}

	if len(req.Tags) == 0 {
		return nil, invalid("tags", "empty tag list")
	}
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", req.Tags).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve tags: %w", err)
	}
	known := make(map[uint]models.Tag, len(tags))
	for _, tag := range tags {
		known[tag.ID] = tag
	}
	seenTags := make(map[uint]struct{}, len(req.Tags))
	for _, id := range req.Tags {
		tag, ok := known[id]
		if !ok {
			return nil, notFound("tag", id)
		}
		if _, dup := seenTags[id]; dup {
			return nil, invalid("tags", "duplicate tag")
		}
		seenTags[id] = struct{}{}
		lines.tags = append(lines.tags, models.RecipeTag{TagID: tag.ID, Tag: tag})
	}

	if req.CookingTime < 1 {
		return nil, invalid("cooking_time", "cooking time must be ≥ 1")
	}
	if req.CookingTime > maxQuantity {
		return nil, invalid("cooking_time", fmt.Sprintf("cooking time must be ≤ %d", maxQuantity))
	}
	return lines, nil
}

// CreateRecipe validates the request and writes the recipe with its
// ingredient and tag rows in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, author *models.User, req *types.RecipeRequest) (*models.Recipe, error) {
	lines, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}
	image, err := s.storeImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        req.Name,
		Image:       image,
		Text:        req.Text,
		CookingTime: int(req.CookingTime),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		return replaceLines(tx, recipe.ID, lines)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[RecipeService] Created recipe %d for user %d", recipe.ID, author.ID)
	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe overwrites the scalar fields and replaces both join sets.
// An empty image keeps the stored one.
func (s *RecipeService) UpdateRecipe(ctx context.Context, author *models.User, id uint, req *types.RecipeRequest) (*models.Recipe, error) {
	recipe, err := s.ownedRecipe(ctx, author, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}
	image := recipe.Image
	if req.Image != "" {
		if image, err = s.storeImage(ctx, req.Image); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         req.Name,
			"text":         req.Text,
			"image":        image,
			"cooking_time": int(req.CookingTime),
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		return replaceLines(tx, recipe.ID, lines)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[RecipeService] Updated recipe %d", recipe.ID)
	return s.GetRecipe(ctx, recipe.ID)
}

// replaceLines discards the stored join rows of a recipe and inserts the
// validated set.
func replaceLines(tx *gorm.DB, recipeID uint, lines *recipeLines) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return fmt.Errorf("failed to clear recipe ingredients: %w", err)
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return fmt.Errorf("failed to clear recipe tags: %w", err)
	}

	ingredients := make([]models.RecipeIngredient, len(lines.ingredients))
	for i, line := range lines.ingredients {
		ingredients[i] = models.RecipeIngredient{RecipeID: recipeID, IngredientID: line.IngredientID, Amount: line.Amount}
	}
	if err := tx.Omit(clause.Associations).Create(&ingredients).Error; err != nil {
		return fmt.Errorf("failed to insert recipe ingredients: %w", err)
	}

	tags := make([]models.RecipeTag, len(lines.tags))
	for i, line := range lines.tags {
		tags[i] = models.RecipeTag{RecipeID: recipeID, TagID: line.TagID}
	}
	if err := tx.Omit(clause.Associations).Create(&tags).Error; err != nil {
		return fmt.Errorf("failed to insert recipe tags: %w", err)
	}
	return nil
}

// DeleteRecipe removes a recipe together with every row that references it.
func (s *RecipeService) DeleteRecipe(ctx context.Context, author *models.User, id uint) error {
	recipe, err := s.ownedRecipe(ctx, author, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []interface{}{
			&models.RecipeIngredient{},
			&models.RecipeTag{},
			&models.Favorite{},
			&models.ShoppingCart{},
		} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(dependent).Error; err != nil {
				return fmt.Errorf("failed to delete recipe dependents: %w", err)
			}
		}
		if err := tx.Delete(&models.Recipe{}, recipe.ID).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
}

func (s *RecipeService) ownedRecipe(ctx context.Context, author *models.User, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("recipe", id)
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	if recipe.AuthorID != author.ID {
		return nil, ErrForbidden
	}
	return &recipe, nil
}

// GetRecipe loads a recipe with author, ingredient lines and tags.
func (s *RecipeService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := preloadAggregate(s.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("recipe", id)
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}

// ListRecipes returns one page of recipes, newest first. Favorite and cart
// filters apply only when viewer is set.
func (s *RecipeService) ListRecipes(ctx context.Context, viewer *models.User, filter types.RecipeFilter, page types.Pagination) ([]models.Recipe, int64, error) {
	scope := recipeFilterScope(viewer, filter)

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	query := preloadAggregate(s.db.WithContext(ctx)).Scopes(scope).
		Order("pub_date DESC").Order("id DESC").
		Offset(page.Offset())
	if page.Limit > 0 {
		query = query.Limit(page.Limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

func recipeFilterScope(viewer *models.User, filter types.RecipeFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.AuthorID != 0 {
			db = db.Where("recipes.author_id = ?", filter.AuthorID)
		}
		if len(filter.TagSlugs) > 0 {
			tagged := db.Session(&gorm.Session{NewDB: true}).Model(&models.RecipeTag{}).
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs)
			db = db.Where("recipes.id IN (?)", tagged)
		}
		if viewer != nil && filter.IsFavorited {
			favorited := db.Session(&gorm.Session{NewDB: true}).Model(&models.Favorite{}).
				Select("recipe_id").Where("user_id = ?", viewer.ID)
			db = db.Where("recipes.id IN (?)", favorited)
		}
		if viewer != nil && filter.IsInShoppingCart {
			inCart := db.Session(&gorm.Session{NewDB: true}).Model(&models.ShoppingCart{}).
				Select("recipe_id").Where("user_id = ?", viewer.ID)
			db = db.Where("recipes.id IN (?)", inCart)
		}
		return db
	}
}

func preloadAggregate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("RecipeIngredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("RecipeIngredients.Ingredient").
		Preload("RecipeTags", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_tags.id") }).
		Preload("RecipeTags.Tag")
}

// storeImage decodes a data URL and hands it to the image store.
func (s *RecipeService) storeImage(ctx context.Context, payload string) (string, error) {
	if payload == "" {
		return "", nil
	}
	image, err := DecodeImage(payload)
	if err != nil {
		return "", err
	}
	if s.images == nil {
		return "", invalid("image", "image uploads are disabled")
	}
	url, err := s.images.Save(ctx, image)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return url, nil
}
