package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"course-sales-backend/config"
	"course-sales-backend/models/courses"
	"course-sales-backend/models/users"
	"course-sales-backend/services"
	"course-sales-backend/storage"
)

var (
	seedFile          string
	seedAdminEmail    string
	seedAdminPassword string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openMigrated()
		if err != nil {
			return err
		}
		defer closeDB(db)
		fmt.Println("Schema is up to date")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the course modules into the database",
	Long: `Load the course modules into the database.

Without --file the built-in curriculum is used. Seeding is repeatable:
modules are upserted and each module's lessons are replaced.

Examples:
  course-sales-backend seed
  course-sales-backend seed --file modules.yaml
  course-sales-backend seed --admin-email me@example.com --admin-password hunter22`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML file with the modules to load")
	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", "", "also create a local account with this email")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "", "password for --admin-email")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	modules, err := readModules(seedFile)
	if err != nil {
		return err
	}

	db, err := openMigrated()
	if err != nil {
		return err
	}
	defer closeDB(db)

	ctx := cmd.Context()
	if err := storage.SeedModules(ctx, db, modules); err != nil {
		return fmt.Errorf("seed modules: %w", err)
	}
	fmt.Printf("Seeded %d modules\n", len(modules))

	if seedAdminEmail == "" {
		return nil
	}
	if len(seedAdminPassword) < 8 {
		return errors.New("--admin-password must be at least 8 characters")
	}
	hashed, err := services.HashPassword(seedAdminPassword)
	if err != nil {
		return err
	}
	u := &users.User{Email: seedAdminEmail, Password: hashed, Provider: users.ProviderLocal}
	switch err := storage.NewGormUserStore(db).Create(ctx, u); {
	case errors.Is(err, storage.ErrEmailTaken):
		fmt.Printf("Account %s already exists\n", seedAdminEmail)
	case err != nil:
		return fmt.Errorf("create account: %w", err)
	default:
		fmt.Printf("Created account %s\n", u.Email)
	}
	return nil
}

func readModules(path string) ([]courses.Module, error) {
	if path == "" {
		return storage.DefaultModules()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return storage.LoadSeed(f)
}

func openMigrated() (*gorm.DB, error) {
	db, err := config.OpenDB(config.DatabaseURL())
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(db); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
