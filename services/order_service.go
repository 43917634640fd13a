package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirfagh/justeat/entity"
	"github.com/amirfagh/justeat/pkg/events"
	"github.com/amirfagh/justeat/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StatusNotifier pushes status changes to live subscribers of an order.
type StatusNotifier interface {
	NotifyStatus(orderID string, status entity.OrderStatus)
}

type nopNotifier struct{}

func (nopNotifier) NotifyStatus(string, entity.OrderStatus) {}

type OrderService struct {
	Tx        *repository.Transactor
	Repo      *repository.OrderRepository
	SeqRepo   *repository.SequenceRepository
	UserRepo  *repository.UserRepository
	Publisher events.Publisher
	Notifier  StatusNotifier
}

func NewOrderService(
	tx *repository.Transactor,
	repo *repository.OrderRepository,
	seqRepo *repository.SequenceRepository,
	userRepo *repository.UserRepository,
	pub events.Publisher,
) *OrderService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &OrderService{Tx: tx, Repo: repo, SeqRepo: seqRepo, UserRepo: userRepo, Publisher: pub, Notifier: nopNotifier{}}
}

// OrderDraft is everything needed to place an order, priced and defaulted by the caller.
type OrderDraft struct {
	Lines       []CartLine
	OrderType   entity.OrderType
	Address     string
	UserUID     string
	Name        string
	PhoneNumber string
}

// PlaceOrder reserves the next order number, writes the order and appends the
// number to the user's order list, all in one transaction. The transaction is
// re-run from the counter read when another submission wins the race.
//
// A missing counter returns repository.ErrSequenceMissing; any other failure is
// reported as ErrPlaceOrderFailed and leaves nothing behind.
func (s *OrderService) PlaceOrder(ctx context.Context, d *OrderDraft) (*entity.Order, error) {
	items := make([]entity.OrderLine, 0, len(d.Lines))
	for _, l := range d.Lines {
		items = append(items, snapshot(l))
	}
	total := FormatAmount(ItemsTotal(d.Lines))

	var placed entity.Order
	err := s.Tx.Run(ctx, func(tx *gorm.DB) error {
		id, err := s.SeqRepo.Next(tx)
		if err != nil {
			return err
		}

		placed = entity.Order{
			ID:          id,
			Items:       datatypes.JSONSlice[entity.OrderLine](items),
			TotalPrice:  total,
			Address:     orDefault(d.Address, "No Address Provided"),
			OrderType:   d.OrderType,
			Status:      entity.StatusPending,
			UserUID:     orDefault(d.UserUID, "Unknown UID"),
			Name:        orDefault(d.Name, "unknown"),
			PhoneNumber: orDefault(d.PhoneNumber, "unknown"),
		}
		if err := s.Repo.CreateOrder(tx, &placed); err != nil {
			return fmt.Errorf("create order %s: %w", id, err)
		}
		if err := s.UserRepo.AppendOrder(tx, d.UserUID, id); err != nil {
			return fmt.Errorf("append order %s to user %s: %w", id, d.UserUID, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrSequenceMissing) {
			slog.Error("order sequence is not configured", "action", "place_order", "uid", d.UserUID)
			return nil, err
		}
		slog.Error("place order failed", "action", "place_order", "uid", d.UserUID, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrPlaceOrderFailed, err)
	}

	slog.Info("order placed", "action", "place_order", "orderId", placed.ID, "uid", placed.UserUID, "total", placed.TotalPrice)
	s.afterPlaced(ctx, &placed)
	return &placed, nil
}

func (s *OrderService) afterPlaced(ctx context.Context, o *entity.Order) {
	s.Notifier.NotifyStatus(o.ID, o.Status)
	err := s.Publisher.PublishOrderPlaced(ctx, events.OrderPlaced{
		OrderID:    o.ID,
		UserUID:    o.UserUID,
		OrderType:  string(o.OrderType),
		TotalPrice: o.TotalPrice,
		Address:    o.Address,
		ItemCount:  len(o.Items),
		PlacedAt:   time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("publish order placed failed", "orderId", o.ID, "err", err)
	}
}

// ----- Read views -----

// Get returns an order the caller may see: its owner, or an admin.
func (s *OrderService) Get(ctx context.Context, uid, role, orderID string) (*entity.Order, error) {
	o, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserUID != uid && role != RoleAdmin {
		return nil, ErrForbidden
	}
	return o, nil
}

// History lists the user's orders oldest first. Ids whose document is gone are skipped.
func (s *OrderService) History(ctx context.Context, uid string) ([]entity.Order, error) {
	u, err := s.UserRepo.FindByUID(ctx, uid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []entity.Order{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.Repo.GetOrders(ctx, u.Orders)
}

type LatestStatus struct {
	OrderID string             `json:"orderId,omitempty"`
	Status  entity.OrderStatus `json:"status,omitempty"`
	Message string             `json:"message"`
}

// LatestStatus reports on the most recent order of uid. Anything missing yields the empty state.
func (s *OrderService) LatestStatus(ctx context.Context, uid string) (*LatestStatus, error) {
	empty := &LatestStatus{Message: StatusMessage("")}

	u, err := s.UserRepo.FindByUID(ctx, uid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return empty, nil
	}
	if err != nil {
		return nil, err
	}
	if len(u.Orders) == 0 {
		return empty, nil
	}

	last := u.Orders[len(u.Orders)-1]
	o, err := s.Repo.GetOrder(ctx, last)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return empty, nil
	}
	if err != nil {
		return nil, err
	}
	return &LatestStatus{OrderID: o.ID, Status: o.Status, Message: StatusMessage(o.Status)}, nil
}

// StatusMessage is the customer-facing text for a status.
func StatusMessage(s entity.OrderStatus) string {
	switch s {
	case entity.StatusPending:
		return "Waiting for the restaurant to accept the order"
	case entity.StatusAccepted:
		return "Order is being prepared at the restaurant"
	case entity.StatusDelivery:
		return "Order is being delivered"
	default:
		return "You don't have current orders, please place an order"
	}
}

// SeedSequence creates the order counter at start. It is an operator action.
func (s *OrderService) SeedSequence(ctx context.Context, start int64) (int64, error) {
	if err := s.SeqRepo.Seed(ctx, start); err != nil {
		return 0, err
	}
	slog.Info("order sequence seeded", "action", "seed_sequence", "start", start)
	return s.SeqRepo.Get(ctx)
}
