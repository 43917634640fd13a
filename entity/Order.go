package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Order is keyed by the zero-padded sequence number ("0001", "0002", ...).
// Items are a snapshot of the cart at submission time.
type Order struct {
	ID          string                         `gorm:"primaryKey;size:16" json:"id"`
	Items       datatypes.JSONSlice[OrderLine] `json:"items"`
	TotalPrice  string                         `json:"totalPrice"` // items + options, without delivery fee
	Address     string                         `json:"address"`
	OrderType   OrderType                      `gorm:"size:16" json:"orderType"`
	Status      OrderStatus                    `gorm:"size:16;index;not null;default:pending" json:"status"`
	UserUID     string                         `gorm:"size:64;index" json:"userUid"`
	Name        string                         `json:"name"`
	PhoneNumber string                         `json:"phoneNumber"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"timestamp"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type OrderLine struct {
	Name          string            `json:"name"`
	NameLocalized string            `json:"namea"`
	Price         string            `json:"price"`
	Photo         string            `json:"photo"`
	Category      string            `json:"category"`
	Options       []OrderLineOption `json:"options"`
}

type OrderLineOption struct {
	Name            string `json:"name"`
	AdditionalPrice string `json:"additionalprice"`
	Selected        bool   `json:"selected"`
}
