package models

// QueueCounter holds the last issued queue number for a named sequence.
// It is only ever incremented inside the transaction that inserts the visit.
type QueueCounter struct {
	Name  string `gorm:"primaryKey;size:50"`
	Value int    `gorm:"not null"`
}
