package services

import (
	"context"

	"github.com/amirfagh/justeat/entity"
	"github.com/amirfagh/justeat/repository"
)

type CartService struct {
	Carts    *CartStore
	MenuRepo *repository.MenuRepository
}

func NewCartService(carts *CartStore, menuRepo *repository.MenuRepository) *CartService {
	return &CartService{Carts: carts, MenuRepo: menuRepo}
}

type AddToCartIn struct {
	MenuItemID string `json:"menuItemId" binding:"required"`
	// nil means "take the item's default-selected options"
	OptionIDs *[]string `json:"optionIds"`
}

type CartView struct {
	Items []CartLine `json:"items"`
	Quote Quote      `json:"quote"`
}

func (s *CartService) Get(uid string, orderType entity.OrderType) *CartView {
	lines := s.Carts.Peek(uid)
	return &CartView{Items: lines, Quote: QuoteFor(lines, orderType)}
}

func (s *CartService) Add(ctx context.Context, uid string, in *AddToCartIn) (*CartView, error) {
	line, err := s.buildLine(ctx, in)
	if err != nil {
		return nil, err
	}
	err = s.Carts.Edit(uid, func(c *Cart) error { return c.Add(*line) })
	if err != nil {
		return nil, err
	}
	return s.Get(uid, entity.OrderTypeDelivery), nil
}

func (s *CartService) Replace(ctx context.Context, uid string, index int, in *AddToCartIn) (*CartView, error) {
	line, err := s.buildLine(ctx, in)
	if err != nil {
		return nil, err
	}
	err = s.Carts.Edit(uid, func(c *Cart) error { return c.Replace(index, *line) })
	if err != nil {
		return nil, err
	}
	return s.Get(uid, entity.OrderTypeDelivery), nil
}

func (s *CartService) Remove(uid string, index int) (*CartView, error) {
	err := s.Carts.Edit(uid, func(c *Cart) error { return c.Remove(index) })
	if err != nil {
		return nil, err
	}
	s.Carts.Prune(uid)
	return s.Get(uid, entity.OrderTypeDelivery), nil
}

func (s *CartService) Clear(uid string) error {
	if err := s.Carts.Edit(uid, (*Cart).Clear); err != nil {
		return err
	}
	s.Carts.Prune(uid)
	return nil
}

// buildLine snapshots the catalog item together with the chosen options.
func (s *CartService) buildLine(ctx context.Context, in *AddToCartIn) (*CartLine, error) {
	item, err := s.MenuRepo.FindByID(ctx, in.MenuItemID)
	if err != nil {
		return nil, err
	}

	chosen := make(map[string]bool)
	if in.OptionIDs == nil {
		for _, o := range item.Options {
			if o.Selected {
				chosen[o.ID] = true
			}
		}
	} else {
		known := make(map[string]bool, len(item.Options))
		for _, o := range item.Options {
			known[o.ID] = true
		}
		for _, id := range *in.OptionIDs {
			if !known[id] {
				return nil, ErrUnknownOption
			}
			chosen[id] = true
		}
	}

	line := &CartLine{
		MenuItemID:    item.ID,
		Name:          item.Name,
		NameLocalized: item.NameLocalized,
		Price:         item.Price,
		Photo:         item.Photo,
		Category:      item.Category,
		Options:       []CartOption{},
	}
	for _, o := range item.Options {
		if !chosen[o.ID] {
			continue
		}
		line.Options = append(line.Options, CartOption{
			ID:              o.ID,
			Name:            o.Name,
			AdditionalPrice: o.AdditionalPrice,
			Selected:        o.Selected,
		})
	}
	return line, nil
}
