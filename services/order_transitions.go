package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirfagh/justeat/entity"
	"github.com/amirfagh/justeat/pkg/events"
	"github.com/amirfagh/justeat/repository"
	"gorm.io/gorm"
)

// Advance moves an order one step forward (pending -> accepted -> delivery -> done).
// It is the fulfillment operator's action; customers never change status.
func (s *OrderService) Advance(ctx context.Context, orderID string, to entity.OrderStatus) (*entity.Order, error) {
	if !to.Valid() {
		return nil, ErrInvalidTransition
	}

	var from entity.OrderStatus
	err := s.Tx.Run(ctx, func(tx *gorm.DB) error {
		var o entity.Order
		if err := tx.Select("id", "status").Where("id = ?", orderID).First(&o).Error; err != nil {
			return err
		}
		next, ok := o.Status.Next()
		if !ok || next != to {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
		}
		moved, err := s.Repo.UpdateStatusFromTo(tx, o.ID, o.Status, to)
		if err != nil {
			return err
		}
		if !moved {
			return repository.ErrConflict
		}
		from = o.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("order status changed", "action", "advance_order", "orderId", orderID, "from", from, "to", to)
	s.Notifier.NotifyStatus(orderID, to)
	if err := s.Publisher.PublishStatusChanged(ctx, events.StatusChanged{
		OrderID:   orderID,
		From:      string(from),
		To:        string(to),
		ChangedAt: time.Now().UTC(),
	}); err != nil {
		slog.Warn("publish status change failed", "orderId", orderID, "err", err)
	}

	return s.Repo.GetOrder(ctx, orderID)
}
