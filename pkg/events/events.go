// Package events hands order lifecycle changes to the external fulfillment process.
package events

import (
	"context"
	"time"
)

type OrderPlaced struct {
	OrderID    string    `json:"orderId"`
	UserUID    string    `json:"userUid"`
	OrderType  string    `json:"orderType"`
	TotalPrice string    `json:"totalPrice"`
	Address    string    `json:"address"`
	ItemCount  int       `json:"itemCount"`
	PlacedAt   time.Time `json:"placedAt"`
}

type StatusChanged struct {
	OrderID   string    `json:"orderId"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changedAt"`
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, e OrderPlaced) error
	PublishStatusChanged(ctx context.Context, e StatusChanged) error
	Close() error
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) PublishOrderPlaced(context.Context, OrderPlaced) error     { return nil }
func (Nop) PublishStatusChanged(context.Context, StatusChanged) error { return nil }
func (Nop) Close() error                                              { return nil }
