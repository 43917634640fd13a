package repository

import (
	"context"

	"github.com/amirfagh/justeat/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

// FindAll returns the whole catalog without options.
func (r *MenuRepository) FindAll(ctx context.Context) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	err := r.DB.WithContext(ctx).
		Order("category, sort_order, name").
		Find(&items).Error
	return items, err
}

// FindByID returns one item with its options in display order.
func (r *MenuRepository) FindByID(ctx context.Context, id string) (*entity.MenuItem, error) {
	var item entity.MenuItem
	err := r.DB.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order, id") }).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Upsert writes an item and replaces its option set. Used by catalog seeding.
func (r *MenuRepository) Upsert(ctx context.Context, item *entity.MenuItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		opts := item.Options
		row := *item
		row.Options = nil
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
			return err
		}
		if err := tx.Where("menu_item_id = ?", item.ID).Delete(&entity.MenuOption{}).Error; err != nil {
			return err
		}
		for i := range opts {
			opts[i].MenuItemID = item.ID
		}
		if len(opts) > 0 {
			if err := tx.Create(&opts).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
