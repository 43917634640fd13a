package entity

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	UID         string `gorm:"primaryKey;size:64" json:"uid"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `json:"-"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	Role        string `gorm:"not null;default:customer" json:"role"`

	// ids of orders placed by this user, oldest first
	Orders datatypes.JSONSlice[string] `json:"orders"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}
