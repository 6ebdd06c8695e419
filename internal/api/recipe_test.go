package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

type recipeCatalog struct {
	salt, flour *models.Ingredient
	breakfast   *models.Tag
	dinner      *models.Tag
}

func seedCatalog(t *testing.T, s *testServer) recipeCatalog {
	return recipeCatalog{
		salt:      testhelpers.CreateIngredient(t, s.db, "salt", "g"),
		flour:     testhelpers.CreateIngredient(t, s.db, "flour", "kg"),
		breakfast: testhelpers.CreateTag(t, s.db, "Breakfast", "breakfast"),
		dinner:    testhelpers.CreateTag(t, s.db, "Dinner", "dinner"),
	}
}

func recipeBody(c recipeCatalog) map[string]interface{} {
	return map[string]interface{}{
		"ingredients": []map[string]interface{}{
			{"id": c.salt.ID, "amount": 5},
			{"id": c.flour.ID, "amount": 1},
		},
		"tags":         []uint{c.breakfast.ID},
		"image":        testhelpers.PNGDataURL,
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"cooking_time": 15,
	}
}

func TestCreateRecipe(t *testing.T) {
	s := setupTestServer(t)
	catalog := seedCatalog(t, s)
	author := testhelpers.CreateUser(t, s.db, "author")

	w := s.do(http.MethodPost, "/api/recipes/", s.token(author), recipeBody(catalog))
	requireStatus(t, w, http.StatusCreated)

	var recipe types.RecipeResponse
	decode(t, w, &recipe)
	assert.NotZero(t, recipe.ID)
	assert.Equal(t, "Pancakes", recipe.Name)
	assert.Equal(t, author.ID, recipe.Author.ID)
	assert.Len(t, recipe.Ingredients, 2)
	require.Len(t, recipe.Tags, 1)
	assert.Equal(t, "breakfast", recipe.Tags[0].Slug)
	assert.True(t, strings.HasPrefix(recipe.Image, "/media/"))
	assert.False(t, recipe.IsFavorited)
	assert.False(t, recipe.IsInShoppingCart)
}

func TestCreateRecipeAcceptsNumericStrings(t *testing.T) {
	s := setupTestServer(t)
	catalog := seedCatalog(t, s)
	author := testhelpers.CreateUser(t, s.db, "author")

	body := recipeBody(catalog)
	body["ingredients"] = []map[string]interface{}{{"id": catalog.salt.ID, "amount": "5"}}
	body["cooking_time"] = "20"

	w := s.do(http.MethodPost, "/api/recipes/", s.token(author), body)
	requireStatus(t, w, http.StatusCreated)

	var recipe types.RecipeResponse
	decode(t, w, &recipe)
	assert.Equal(t, 20, recipe.CookingTime)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, 5, recipe.Ingredients[0].Amount)
}

func TestCreateRecipeRequiresAuth(t *testing.T) {
	s := setupTestServer(t)
	catalog := seedCatalog(t, s)

	w := s.do(http.MethodPost, "/api/recipes/", "", recipeBody(catalog))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/recipes/", "not-a-token", recipeBody(catalog))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRecipeValidation(t *testing.T) {
	s := setupTestServer(t)
	catalog := seedCatalog(t, s)
	author := testhelpers.CreateUser(t, s.db, "author")
	token := s.token(author)

	tests := []struct {
		name   string
		mutate func(body map[string]interface{})
		status int
		field  string
	}{
		{
			name:   "missing name",
			mutate: func(body map[string]interface{}) { delete(body, "name") },
			status: http.StatusBadRequest,
			field:  "name",
		},
		{
			name:   "empty ingredients",
			mutate: func(body map[string]interface{}) { body["ingredients"] = []interface{}{} },
			status: http.StatusBadRequest,
			field:  "ingredients",
		},
		{
			name: "duplicate ingredient",
			mutate: func(body map[string]interface{}) {
				body["ingredients"] = []map[string]interface{}{
					{"id": catalog.salt.ID, "amount": 1},
					{"id": catalog.salt.ID, "amount": 2},
				}
			},
			status: http.StatusBadRequest,
			field:  "ingredients",
		},
		{
			name: "zero amount",
			mutate: func(body map[string]interface{}) {
				body["ingredients"] = []map[string]interface{}{{"id": catalog.salt.ID, "amount": 0}}
			},
			status: http.StatusBadRequest,
			field:  "ingredients",
		},
		{
			name:   "empty tags",
			mutate: func(body map[string]interface{}) { body["tags"] = []uint{} },
			status: http.StatusBadRequest,
			field:  "tags",
		},
		{
			name:   "duplicate tag",
			mutate: func(body map[string]interface{}) { body["tags"] = []uint{catalog.dinner.ID, catalog.dinner.ID} },
			status: http.StatusBadRequest,
			field:  "tags",
		},
		{
			name:   "zero cooking time",
			mutate: func(body map[string]interface{}) { body["cooking_time"] = 0 },
			status: http.StatusBadRequest,
			field:  "cooking_time",
		},
		{
			name: "amount above the column range",
			mutate: func(body map[string]interface{}) {
				body["ingredients"] = []map[string]interface{}{{"id": catalog.salt.ID, "amount": 3000000000}}
			},
			status: http.StatusBadRequest,
			field:  "ingredients",
		},
		{
			name:   "cooking time above the column range",
			mutate: func(body map[string]interface{}) { body["cooking_time"] = "2147483648" },
			status: http.StatusBadRequest,
			field:  "cooking_time",
		},
		{
			name:   "non-numeric cooking time",
			mutate: func(body map[string]interface{}) { body["cooking_time"] = "soon" },
			status: http.StatusBadRequest,
			field:  "cooking_time",
		},
		{
			name:   "bad image",
			mutate: func(body map[string]interface{}) { body["image"] = "not-a-data-url" },
			status: http.StatusBadRequest,
			field:  "image",
		},
		{
			name: "unknown ingredient",
			mutate: func(body map[string]interface{}) {
				body["ingredients"] = []map[string]interface{}{{"id": 9999, "amount": 1}}
			},
			status: http.StatusNotFound,
		},
		{
			name:   "unknown tag",
			mutate: func(body map[string]interface{}) { body["tags"] = []uint{9999} },
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := recipeBody(catalog)
			tt.mutate(body)

			w := s.do(http.MethodPost, "/api/recipes/", token, body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.field != "" {
				var errs map[string][]string
				decode(t, w, &errs)
				assert.NotEmpty(t, errs[tt.field], w.Body.String())
			}
		})
	}

	var count int64
	require.NoError(t, s.db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateRecipe(t *testing.T) {
	s := setupTestServer(t)
	catalog := seedCatalog(t, s)
	author := testhelpers.CreateUser(t, s.db, "author")
	other := testhelpers.CreateUser(t, s.db, "other")
	recipe := testhelpers.CreateRecipe(t, s.db, author, "Soup", []testhelpers.Line{{Ingredient: catalog.salt, Amount: 3}}, catalog.dinner)

	body := recipeBody(catalog)
	body["image"] = ""
	path := fmt.Sprintf("/api/recipes/%d/", recipe.ID)

	w := s.do(http.MethodPatch, path, s.token(other), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPatch, path, s.token(author), body)
	requireStatus(t, w, http.StatusOK)

	var updated types.RecipeResponse
	decode(t, w, &updated)
	assert.Equal(t, "Pancakes", updated.Name)
	assert.Equal(t, recipe.Image, updated.Image)
	assert.Len(t, updated.Ingredients, 2)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, catalog.breakfast.ID, updated.Tags[0].ID)

	w = s.do(http.MethodPatch, "/api/recipes/9999/", s.token(author), body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRecipe(t *testing.T) {
	s := setupTestServer(t)
	catalog := seedCatalog(t, s)
	author := testhelpers.CreateUser(t, s.db, "author")
	other := testhelpers.CreateUser(t, s.db, "other")
	recipe := testhelpers.CreateRecipe(t, s.db, author, "Soup", []testhelpers.Line{{Ingredient: catalog.salt, Amount: 3}}, catalog.dinner)
	path := fmt.Sprintf("/api/recipes/%d/", recipe.ID)

	w := s.do(http.MethodDelete, path, s.token(other), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, path, s.token(author), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRecipeMalformedID(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(http.MethodGet, "/api/recipes/abc/", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRecipes(t *testing.T) {
	s := setupTestServer(t)
	catalog := seedCatalog(t, s)
	author := testhelpers.CreateUser(t, s.db, "author")
	viewer := testhelpers.CreateUser(t, s.db, "viewer")
	line := []testhelpers.Line{{Ingredient: catalog.salt, Amount: 1}}

	var last *models.Recipe
	for i := 0; i < 7; i++ {
		last = testhelpers.CreateRecipe(t, s.db, author, fmt.Sprintf("Recipe %d", i), line, catalog.dinner)
	}
	testhelpers.CreateRecipe(t, s.db, viewer, "Porridge", line, catalog.breakfast)

	w := s.do(http.MethodGet, "/api/recipes/", "", nil)
	requireStatus(t, w, http.StatusOK)
	var page types.Page[types.RecipeResponse]
	decode(t, w, &page)
	assert.Equal(t, int64(8), page.Count)
	assert.Len(t, page.Results, 6)
	require.NotNil(t, page.Next)
	assert.Contains(t, *page.Next, "page=2")
	assert.Nil(t, page.Previous)

	w = s.do(http.MethodGet, "/api/recipes/?page=2", "", nil)
	decode(t, w, &page)
	assert.Len(t, page.Results, 2)
	assert.Nil(t, page.Next)
	assert.NotNil(t, page.Previous)

	w = s.do(http.MethodGet, "/api/recipes/?tags=breakfast", "", nil)
	decode(t, w, &page)
	require.Equal(t, int64(1), page.Count)
	assert.Equal(t, "Porridge", page.Results[0].Name)

	w = s.do(http.MethodGet, "/api/recipes/?tags=breakfast&tags=dinner", "", nil)
	decode(t, w, &page)
	assert.Equal(t, int64(8), page.Count)

	w = s.do(http.MethodGet, "/api/recipes/?tags=breakfast&tags=brunch", "", nil)
	requireStatus(t, w, http.StatusBadRequest)
	var errs map[string][]string
	decode(t, w, &errs)
	assert.NotEmpty(t, errs["tags"])

	w = s.do(http.MethodGet, fmt.Sprintf("/api/recipes/?author=%d&limit=100", author.ID), "", nil)
	decode(t, w, &page)
	assert.Equal(t, int64(7), page.Count)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/favorite/", last.ID), s.token(viewer), nil)
	requireStatus(t, w, http.StatusCreated)

	w = s.do(http.MethodGet, "/api/recipes/?is_favorited=1", s.token(viewer), nil)
	decode(t, w, &page)
	require.Equal(t, int64(1), page.Count)
	assert.Equal(t, last.ID, page.Results[0].ID)
	assert.True(t, page.Results[0].IsFavorited)

	w = s.do(http.MethodGet, "/api/recipes/?limit=-1", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFavoriteCycle(t *testing.T) {
	s := setupTestServer(t)
	catalog := seedCatalog(t, s)
	author := testhelpers.CreateUser(t, s.db, "author")
	user := testhelpers.CreateUser(t, s.db, "fan")
	recipe := testhelpers.CreateRecipe(t, s.db, author, "Soup", []testhelpers.Line{{Ingredient: catalog.salt, Amount: 3}}, catalog.dinner)
	token := s.token(user)
	path := fmt.Sprintf("/api/recipes/%d/favorite/", recipe.ID)

	w := s.do(http.MethodPost, path, token, nil)
	requireStatus(t, w, http.StatusCreated)
	var summary types.RecipeSummary
	decode(t, w, &summary)
	assert.Equal(t, types.RecipeSummary{ID: recipe.ID, Name: "Soup", Image: recipe.Image, CookingTime: recipe.CookingTime}, summary)

	w = s.do(http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var conflict map[string]string
	decode(t, w, &conflict)
	assert.NotEmpty(t, conflict["errors"])

	w = s.do(http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/api/recipes/9999/favorite/", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShoppingCartDownload(t *testing.T) {
	s := setupTestServer(t)
	catalog := seedCatalog(t, s)
	author := testhelpers.CreateUser(t, s.db, "author")
	user := testhelpers.CreateUser(t, s.db, "shopper")
	first := testhelpers.CreateRecipe(t, s.db, author, "Bread", []testhelpers.Line{
		{Ingredient: catalog.salt, Amount: 10},
		{Ingredient: catalog.flour, Amount: 1},
	}, catalog.breakfast)
	second := testhelpers.CreateRecipe(t, s.db, author, "Soup", []testhelpers.Line{{Ingredient: catalog.salt, Amount: 5}}, catalog.dinner)
	token := s.token(user)

	for _, recipe := range []*models.Recipe{first, second} {
		w := s.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart/", recipe.ID), token, nil)
		requireStatus(t, w, http.StatusCreated)
	}

	w := s.do(http.MethodGet, "/api/recipes/download_shopping_cart/", token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=shopping_cart.txt", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Your shopping list:\n\nFlour - 1 kg\nSalt - 15 g\n", w.Body.String())

	w = s.do(http.MethodGet, fmt.Sprintf("/api/recipes/%d/", second.ID), token, nil)
	var recipe types.RecipeResponse
	decode(t, w, &recipe)
	assert.True(t, recipe.IsInShoppingCart)

	w = s.do(http.MethodGet, "/api/recipes/download_shopping_cart/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
