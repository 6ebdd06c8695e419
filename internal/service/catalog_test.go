package service

import (
	"context"
	"testing"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchIngredients(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	for _, name := range []string{"Salt", "salted butter", "sugar", "sea_salt", "seaweed"} {
		testhelpers.CreateIngredient(t, db, name, "g")
	}
	catalog := NewCatalogService(db)

	names := func(ingredients []models.Ingredient) []string {
		var out []string
		for _, i := range ingredients {
			out = append(out, i.Name)
		}
		return out
	}

	found, err := catalog.SearchIngredients(ctx, "SAL")
	require.NoError(t, err)
	assert.Equal(t, []string{"Salt", "salted butter"}, names(found))

	found, err = catalog.SearchIngredients(ctx, "sea_")
	require.NoError(t, err)
	assert.Equal(t, []string{"sea_salt"}, names(found), "underscore is matched literally")

	found, err = catalog.SearchIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, found, 5)

	found, err = catalog.SearchIngredients(ctx, "pepper")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestCatalogLookups(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	lunch := testhelpers.CreateTag(t, db, "Lunch", "lunch")
	testhelpers.CreateTag(t, db, "Dinner", "dinner")
	salt := testhelpers.CreateIngredient(t, db, "salt", "g")
	catalog := NewCatalogService(db)

	tag, err := catalog.GetTag(ctx, lunch.ID)
	require.NoError(t, err)
	assert.Equal(t, "lunch", tag.Slug)

	tag, err = catalog.GetTagBySlug(ctx, "dinner")
	require.NoError(t, err)
	assert.Equal(t, "Dinner", tag.Name)

	_, err = catalog.GetTagBySlug(ctx, "brunch")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = catalog.GetTag(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	tags, err := catalog.ListTags(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
	tags, err = catalog.ListTags(ctx, []string{"lunch"})
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, lunch.ID, tags[0].ID)

	ingredient, err := catalog.GetIngredient(ctx, salt.ID)
	require.NoError(t, err)
	assert.Equal(t, "g", ingredient.MeasurementUnit)
	_, err = catalog.GetIngredient(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
