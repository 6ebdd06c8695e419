package service

import (
	"context"
	"testing"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShoppingListSumsSameNameAndUnit(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "shopper")
	salt := testhelpers.CreateIngredient(t, db, "Salt", "g")
	a := testhelpers.CreateRecipe(t, db, user, "A", []testhelpers.Line{{Ingredient: salt, Amount: 10}})
	b := testhelpers.CreateRecipe(t, db, user, "B", []testhelpers.Line{{Ingredient: salt, Amount: 5}})
	cart := NewRecipeListService(db, ShoppingCart)
	for _, recipe := range []*models.Recipe{a, b} {
		_, err := cart.Add(ctx, user, recipe.ID)
		require.NoError(t, err)
	}

	report, err := NewShoppingListService(db).Render(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, ShoppingListHeader+"Salt - 15 g\n", report)
}

func TestShoppingListSeparatesUnits(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "shopper")
	grams := testhelpers.CreateIngredient(t, db, "Salt", "g")
	kilos := testhelpers.CreateIngredient(t, db, "Salt", "kg")
	a := testhelpers.CreateRecipe(t, db, user, "A", []testhelpers.Line{{Ingredient: grams, Amount: 10}})
	b := testhelpers.CreateRecipe(t, db, user, "B", []testhelpers.Line{{Ingredient: kilos, Amount: 5}})
	cart := NewRecipeListService(db, ShoppingCart)
	for _, recipe := range []*models.Recipe{a, b} {
		_, err := cart.Add(ctx, user, recipe.ID)
		require.NoError(t, err)
	}

	items, err := NewShoppingListService(db).Items(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, []ShoppingListItem{
		{Name: "Salt", MeasurementUnit: "g", Amount: 10},
		{Name: "Salt", MeasurementUnit: "kg", Amount: 5},
	}, items)
}

func TestShoppingListOnlyCountsOwnCart(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "shopper")
	other := testhelpers.CreateUser(t, db, "other")
	sugar := testhelpers.CreateIngredient(t, db, "sugar", "g")
	flour := testhelpers.CreateIngredient(t, db, "flour", "kg")
	cake := testhelpers.CreateRecipe(t, db, other, "Cake", []testhelpers.Line{
		{Ingredient: sugar, Amount: 200},
		{Ingredient: flour, Amount: 1},
	})
	testhelpers.CreateRecipe(t, db, other, "Bread", []testhelpers.Line{{Ingredient: flour, Amount: 2}})

	_, err := NewRecipeListService(db, ShoppingCart).Add(ctx, user, cake.ID)
	require.NoError(t, err)

	report, err := NewShoppingListService(db).Render(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, ShoppingListHeader+"Flour - 1 kg\nSugar - 200 g\n", report)
}

func TestShoppingListEmptyCart(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	user := testhelpers.CreateUser(t, db, "shopper")

	report, err := NewShoppingListService(db).Render(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, ShoppingListHeader, report)
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"salt":       "Salt",
		"SALT":       "Salt",
		"olive oil":  "Olive oil",
		"ёжевика":    "Ёжевика",
		"":           "",
		"7-up":       "7-up",
		"éCLAIR mix": "Éclair mix",
	}
	for in, want := range tests {
		assert.Equal(t, want, capitalize(in), in)
	}
}
