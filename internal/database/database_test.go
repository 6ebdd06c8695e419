package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNewSQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "app.db")}

	db, err := database.New(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db))
	require.NoError(t, database.HealthCheck(context.Background(), db))

	user := models.User{Email: "a@example.com", Username: "a", FirstName: "A", LastName: "B", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	assert.NotZero(t, user.ID)

	dup := models.User{Email: "a@example.com", Username: "b", FirstName: "A", LastName: "B", PasswordHash: "x"}
	err = db.Create(&dup).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := database.New(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestSchemaConstraints(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	author := testhelpers.CreateUser(t, db, "author")
	salt := testhelpers.CreateIngredient(t, db, "salt", "g")
	recipe := testhelpers.CreateRecipe(t, db, author, "Soup", []testhelpers.Line{{Ingredient: salt, Amount: 5}})

	t.Run("amount must be positive", func(t *testing.T) {
		pepper := testhelpers.CreateIngredient(t, db, "pepper", "g")
		err := db.Create(&models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: pepper.ID, Amount: 0}).Error
		assert.Error(t, err)
	})

	t.Run("ingredient appears once per recipe", func(t *testing.T) {
		err := db.Create(&models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: salt.ID, Amount: 3}).Error
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("deleting an ingredient removes its lines", func(t *testing.T) {
		require.NoError(t, db.Delete(&models.Ingredient{}, salt.ID).Error)
		var count int64
		db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&count)
		assert.Zero(t, count)
	})
}

func TestLoadMigrations(t *testing.T) {
	migrations, err := database.LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for i, m := range migrations {
		assert.NotEmpty(t, m.Up, m.Name)
		assert.NotEmpty(t, m.Rollback, m.Name)
		if i > 0 {
			assert.Less(t, migrations[i-1].Version, m.Version)
		}
	}
	assert.Equal(t, "0001", migrations[0].Version)
}

func TestPostgresMigrations(t *testing.T) {
	db := testhelpers.SetupPostgres(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	ctx := context.Background()

	applied, err := database.ApplyMigrations(ctx, sqlDB)
	require.NoError(t, err)
	assert.Empty(t, applied, "migrations are already applied by the helper")

	name, err := database.RollbackLast(ctx, sqlDB)
	require.NoError(t, err)
	assert.Equal(t, "0002_ingredient_name_prefix.sql", name)

	applied, err = database.ApplyMigrations(ctx, sqlDB)
	require.NoError(t, err)
	assert.Equal(t, []string{"0002_ingredient_name_prefix.sql"}, applied)
}
