package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
)

var (
	dataFile string

	rootCmd = &cobra.Command{
		Use:   "loader",
		Short: "Bulk load the tag and ingredient catalog",
		Long: `loader reads a JSON or YAML file and inserts its entries into the
catalog in a single transaction. Entries that already exist are skipped.`,
		SilenceUsage: true,
	}

	ingredientsCmd = &cobra.Command{
		Use:   "ingredients",
		Short: "Load ingredients (name, measurement_unit)",
		RunE:  runLoadIngredients,
	}

	tagsCmd = &cobra.Command{
		Use:   "tags",
		Short: "Load tags (name, color, slug)",
		RunE:  runLoadTags,
	}

	usersCmd = &cobra.Command{
		Use:   "users",
		Short: "Create demo accounts (email, username, first_name, last_name, password)",
		RunE:  runLoadUsers,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataFile, "file", "f", "", "path to a .json, .yaml or .yml file")
	_ = rootCmd.MarkPersistentFlagRequired("file")

	rootCmd.AddCommand(ingredientsCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(usersCmd)
}

func openDatabase(ctx context.Context) (*gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

func runLoadIngredients(cmd *cobra.Command, args []string) error {
	entries, err := readIngredients(dataFile)
	if err != nil {
		return err
	}
	db, err := openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	inserted, err := loadIngredients(cmd.Context(), db, entries)
	if err != nil {
		return err
	}
	log.Printf("[Loader] Inserted %d of %d ingredients", inserted, len(entries))
	return nil
}

func runLoadTags(cmd *cobra.Command, args []string) error {
	entries, err := readTags(dataFile)
	if err != nil {
		return err
	}
	db, err := openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	inserted, err := loadTags(cmd.Context(), db, entries)
	if err != nil {
		return err
	}
	log.Printf("[Loader] Inserted %d of %d tags", inserted, len(entries))
	return nil
}

func runLoadUsers(cmd *cobra.Command, args []string) error {
	entries, err := readUsers(dataFile)
	if err != nil {
		return err
	}
	db, err := openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	inserted, err := loadUsers(cmd.Context(), db, entries)
	if err != nil {
		return err
	}
	log.Printf("[Loader] Created %d of %d users", inserted, len(entries))
	return nil
}
