package entity

const RestaurantSettingID = "restaurant"

type Setting struct {
	ID     string `gorm:"primaryKey;size:32" json:"id"`
	IsOpen bool   `json:"isOpen"`
}
