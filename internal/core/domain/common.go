package domain

import "time"

// Timestamps holds the standard creation and modification times for persisted entities.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CurrencyGHS is the only currency the wallet holds.
const CurrencyGHS = "GHS"
