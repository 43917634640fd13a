package repository

import (
	"context"

	"github.com/amirfagh/justeat/entity"
	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

// CreateOrder writes the order document. The id must already be reserved.
func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.WithContext(ctx).Where("id = ?", orderID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrders loads the given ids in the given order. Missing documents are skipped.
func (r *OrderRepository) GetOrders(ctx context.Context, ids []string) ([]entity.Order, error) {
	if len(ids) == 0 {
		return []entity.Order{}, nil
	}
	var rows []entity.Order
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[string]entity.Order, len(rows))
	for _, o := range rows {
		byID[o.ID] = o
	}
	out := make([]entity.Order, 0, len(rows))
	for _, id := range ids {
		if o, ok := byID[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *OrderRepository) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&entity.Order{}).Count(&n).Error
	return n, err
}

// ---------------- Status ----------------

// UpdateStatusFromTo moves an order only when it is still in the expected state.
func (r *OrderRepository) UpdateStatusFromTo(tx *gorm.DB, orderID string, from, to entity.OrderStatus) (bool, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
