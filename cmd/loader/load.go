package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const batchSize = 500

type ingredientEntry struct {
	Name            string `json:"name" yaml:"name"`
	MeasurementUnit string `json:"measurement_unit" yaml:"measurement_unit"`
}

type tagEntry struct {
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
	Slug  string `json:"slug" yaml:"slug"`
}

type userEntry struct {
	Email     string `json:"email" yaml:"email"`
	Username  string `json:"username" yaml:"username"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	Password  string `json:"password" yaml:"password"`
}

// decodeFile picks the decoder from the file extension.
func decodeFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, out)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, out)
	default:
		return fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func readIngredients(path string) ([]ingredientEntry, error) {
	var entries []ingredientEntry
	if err := decodeFile(path, &entries); err != nil {
		return nil, err
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Name) == "" || strings.TrimSpace(e.MeasurementUnit) == "" {
			return nil, fmt.Errorf("ingredient #%d: name and measurement_unit are required", i+1)
		}
	}
	return entries, nil
}

func readTags(path string) ([]tagEntry, error) {
	var entries []tagEntry
	if err := decodeFile(path, &entries); err != nil {
		return nil, err
	}
	for i, e := range entries {
		if e.Name == "" || e.Slug == "" || e.Color == "" {
			return nil, fmt.Errorf("tag #%d: name, color and slug are required", i+1)
		}
	}
	return entries, nil
}

func readUsers(path string) ([]userEntry, error) {
	var entries []userEntry
	if err := decodeFile(path, &entries); err != nil {
		return nil, err
	}
	for i, e := range entries {
		if e.Email == "" || e.Username == "" || e.Password == "" {
			return nil, fmt.Errorf("user #%d: email, username and password are required", i+1)
		}
	}
	return entries, nil
}

// loadIngredients inserts entries whose (name, unit) pair is not yet in the catalog.
func loadIngredients(ctx context.Context, db *gorm.DB, entries []ingredientEntry) (int, error) {
	var inserted int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.Ingredient
		if err := tx.Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to read catalog: %w", err)
		}
		seen := make(map[ingredientEntry]bool, len(existing))
		for _, ing := range existing {
			seen[ingredientEntry{Name: ing.Name, MeasurementUnit: ing.MeasurementUnit}] = true
		}

		var rows []models.Ingredient
		for _, e := range entries {
			key := ingredientEntry{Name: strings.TrimSpace(e.Name), MeasurementUnit: strings.TrimSpace(e.MeasurementUnit)}
			if seen[key] {
				continue
			}
			seen[key] = true
			rows = append(rows, models.Ingredient{Name: key.Name, MeasurementUnit: key.MeasurementUnit})
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, batchSize).Error; err != nil {
			return fmt.Errorf("failed to insert ingredients: %w", err)
		}
		inserted = len(rows)
		return nil
	})
	return inserted, err
}

// loadTags inserts tags, skipping any that collide with an existing name, color or slug.
func loadTags(ctx context.Context, db *gorm.DB, entries []tagEntry) (int, error) {
	var inserted int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			tag := models.Tag{Name: e.Name, Color: e.Color, Slug: e.Slug}
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag)
			if result.Error != nil {
				return fmt.Errorf("failed to insert tag %s: %w", e.Slug, result.Error)
			}
			inserted += int(result.RowsAffected)
		}
		return nil
	})
	return inserted, err
}

// loadUsers registers each account through the user service. Accounts whose
// email or username is taken are skipped.
func loadUsers(ctx context.Context, db *gorm.DB, entries []userEntry) (int, error) {
	var created int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := service.NewUserService(tx)
		for _, e := range entries {
			_, err := users.Register(ctx, &types.RegisterRequest{
				Email:     e.Email,
				Username:  e.Username,
				FirstName: e.FirstName,
				LastName:  e.LastName,
				Password:  e.Password,
			})
			var verr *service.ValidationError
			if errors.As(err, &verr) {
				log.Printf("[Loader] Skipping %s: %s", e.Username, verr.Message)
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to create user %s: %w", e.Username, err)
			}
			created++
		}
		return nil
	})
	return created, err
}
