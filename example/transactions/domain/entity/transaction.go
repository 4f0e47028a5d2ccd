package entity

import "time"

// Transaction is one bank account movement parsed from the input feed.
type Transaction struct {
	ID         string
	Account    string
	Amount     float64
	Currency   string
	OccurredAt time.Time
	Category   string
}
