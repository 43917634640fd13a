package services

import (
	"context"
	"errors"

	"github.com/amirfagh/justeat/entity"
	"github.com/amirfagh/justeat/repository"
	"gorm.io/gorm"
)

type CheckoutService struct {
	Carts    *CartStore
	Orders   *OrderService
	UserRepo *repository.UserRepository
}

func NewCheckoutService(carts *CartStore, orders *OrderService, userRepo *repository.UserRepository) *CheckoutService {
	return &CheckoutService{Carts: carts, Orders: orders, UserRepo: userRepo}
}

type CheckoutIn struct {
	OrderType entity.OrderType `json:"orderType" binding:"required"`
	// Empty means the profile address.
	Address string `json:"address"`
}

type Receipt struct {
	OrderID string             `json:"orderId"`
	Status  entity.OrderStatus `json:"status"`
	Quote
}

// Preview prices the current cart without submitting it.
func (s *CheckoutService) Preview(uid string, t entity.OrderType) (*Quote, error) {
	if !t.Valid() {
		return nil, ErrInvalidOrderType
	}
	q := QuoteFor(s.Carts.Peek(uid), t)
	return &q, nil
}

// Checkout submits the user's cart. The cart is locked against edits while the
// order is placed and cleared only when it commits.
func (s *CheckoutService) Checkout(ctx context.Context, uid string, in *CheckoutIn) (*Receipt, error) {
	if !in.OrderType.Valid() {
		return nil, ErrInvalidOrderType
	}
	if len(s.Carts.Peek(uid)) == 0 {
		return nil, ErrCartEmpty
	}

	var (
		cart  *Cart
		lines []CartLine
	)
	err := s.Carts.Edit(uid, func(c *Cart) error {
		var err error
		cart = c
		lines, err = c.Begin()
		return err
	})
	if err != nil {
		s.Carts.Prune(uid)
		return nil, err
	}
	placed := false
	defer func() {
		cart.Finish(placed)
		if placed {
			s.Carts.Prune(uid)
		}
	}()

	user, err := s.UserRepo.FindByUID(ctx, uid)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	draft := &OrderDraft{Lines: lines, OrderType: in.OrderType, Address: in.Address, UserUID: uid}
	if user != nil {
		if draft.Address == "" {
			draft.Address = user.Address
		}
		draft.Name = user.Name
		draft.PhoneNumber = user.PhoneNumber
	}

	order, err := s.Orders.PlaceOrder(ctx, draft)
	if err != nil {
		return nil, err
	}
	placed = true

	return &Receipt{OrderID: order.ID, Status: order.Status, Quote: QuoteFor(lines, in.OrderType)}, nil
}
