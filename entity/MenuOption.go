package entity

// MenuOption belongs to exactly one MenuItem.
type MenuOption struct {
	ID              string `gorm:"primaryKey;size:64" json:"id" yaml:"id"`
	MenuItemID      string `gorm:"primaryKey;size:64" json:"menuItemId" yaml:"-"`
	Name            string `json:"name" yaml:"name"`
	AdditionalPrice string `json:"additionalprice" yaml:"additionalprice"` // blank or zero means free
	Selected        bool   `json:"selected" yaml:"selected"`               // selected by default
	Image           string `json:"image" yaml:"image"`
	SortOrder       int    `gorm:"not null;default:0" json:"sortOrder" yaml:"sortOrder"`
}
