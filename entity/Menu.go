package entity

import "time"

// MenuItem is a catalog entry. Only operators write it; clients read it.
type MenuItem struct {
	ID            string `gorm:"primaryKey;size:64" json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	NameLocalized string `json:"namea" yaml:"namea"`
	Price         string `json:"price" yaml:"price"` // decimal string, as stored by the catalog
	Photo         string `json:"photo" yaml:"photo"`
	Category      string `gorm:"index" json:"category" yaml:"category"`
	SortOrder     int    `gorm:"not null;default:0" json:"sortOrder" yaml:"sortOrder"`

	Options []MenuOption `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE;" json:"options,omitempty" yaml:"options"`

	CreatedAt time.Time `json:"-" yaml:"-"`
	UpdatedAt time.Time `json:"-" yaml:"-"`
}
