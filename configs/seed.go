package configs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/amirfagh/justeat/entity"
	"github.com/amirfagh/justeat/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// SeedAdmin creates the first operator account from ADMIN_EMAIL/ADMIN_PASSWORD.
func SeedAdmin(db *gorm.DB, email, pass string) error {
	if email == "" || pass == "" {
		slog.Info("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		slog.Info("admin already exists", "email", email)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := entity.User{
		UID:      uuid.NewString(),
		Email:    email,
		Password: string(hash),
		Name:     "Admin",
		Role:     "admin",
		Orders:   []string{},
	}
	return db.Create(&admin).Error
}

// SeedSettings creates the restaurant settings document, closed, if it is missing.
func SeedSettings(db *gorm.DB) error {
	return db.Where(entity.Setting{ID: entity.RestaurantSettingID}).
		FirstOrCreate(&entity.Setting{ID: entity.RestaurantSettingID, IsOpen: false}).Error
}

// MenuFile is the YAML catalog layout:
//
//	items:
//	  - id: shawarma
//	    name: Shawarma
//	    price: "25"
//	    category: Sandwiches
//	    options:
//	      - id: onion
//	        name: Onion
//	        selected: true
type MenuFile struct {
	Items []entity.MenuItem `yaml:"items"`
}

// LoadMenuFile parses a YAML catalog.
func LoadMenuFile(path string) (*MenuFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file: %w", err)
	}
	var mf MenuFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse menu file: %w", err)
	}
	for i, it := range mf.Items {
		if it.ID == "" {
			return nil, fmt.Errorf("menu item %d has no id", i)
		}
		for _, o := range it.Options {
			if o.ID == "" {
				return nil, fmt.Errorf("menu item %s has an option without id", it.ID)
			}
		}
	}
	return &mf, nil
}

// SeedMenu upserts every item of the YAML catalog at path.
func SeedMenu(ctx context.Context, repo *repository.MenuRepository, path string) (int, error) {
	mf, err := LoadMenuFile(path)
	if err != nil {
		return 0, err
	}
	for i := range mf.Items {
		if err := repo.Upsert(ctx, &mf.Items[i]); err != nil {
			return i, fmt.Errorf("upsert menu item %s: %w", mf.Items[i].ID, err)
		}
	}
	slog.Info("menu seeded", "items", len(mf.Items), "file", path)
	return len(mf.Items), nil
}

// SeedOrderSequence creates the order counter when it does not exist yet.
// An existing counter is left alone.
func SeedOrderSequence(ctx context.Context, repo *repository.SequenceRepository, start int64) error {
	err := repo.Seed(ctx, start)
	if errors.Is(err, repository.ErrSequenceExists) {
		slog.Info("order sequence already exists, not touching it")
		return nil
	}
	if err != nil {
		return err
	}
	slog.Info("order sequence seeded", "start", start)
	return nil
}
