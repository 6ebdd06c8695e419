package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestCatalogEndpoints(t *testing.T) {
	s := setupTestServer(t)
	breakfast := testhelpers.CreateTag(t, s.db, "Breakfast", "breakfast")
	testhelpers.CreateTag(t, s.db, "Dinner", "dinner")
	salt := testhelpers.CreateIngredient(t, s.db, "Salt", "g")
	testhelpers.CreateIngredient(t, s.db, "salmon", "g")
	testhelpers.CreateIngredient(t, s.db, "sugar", "g")

	w := s.do(http.MethodGet, "/api/tags/", "", nil)
	requireStatus(t, w, http.StatusOK)
	var tags []types.TagResponse
	decode(t, w, &tags)
	assert.Len(t, tags, 2)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/tags/%d/", breakfast.ID), "", nil)
	requireStatus(t, w, http.StatusOK)
	var tag types.TagResponse
	decode(t, w, &tag)
	assert.Equal(t, "breakfast", tag.Slug)

	w = s.do(http.MethodGet, "/api/tags/9999/", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/ingredients/?name=SAL", "", nil)
	requireStatus(t, w, http.StatusOK)
	var ingredients []types.IngredientResponse
	decode(t, w, &ingredients)
	require.Len(t, ingredients, 2)
	for _, ing := range ingredients {
		assert.NotEqual(t, "sugar", ing.Name)
	}

	w = s.do(http.MethodGet, "/api/ingredients/", "", nil)
	decode(t, w, &ingredients)
	assert.Len(t, ingredients, 3)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/ingredients/%d/", salt.ID), "", nil)
	requireStatus(t, w, http.StatusOK)
	var ingredient types.IngredientResponse
	decode(t, w, &ingredient)
	assert.Equal(t, types.IngredientResponse{ID: salt.ID, Name: "Salt", MeasurementUnit: "g"}, ingredient)
}

func TestHealthCheck(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}
