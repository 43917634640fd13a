package entity

// SequenceDocID is the id of the single counter row.
const SequenceDocID = "sequence"

// OrderSequence holds the number of the last committed order.
type OrderSequence struct {
	ID              string `gorm:"primaryKey;size:32" json:"id"`
	CurrentSequence int64  `gorm:"not null" json:"currentSequence"`
}
