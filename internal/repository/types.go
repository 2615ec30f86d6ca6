package repository

import "time"

// OrderListFilter narrows admin order listings.
type OrderListFilter struct {
	UserID        uint
	Status        string
	PaymentStatus string
	PaymentMethod string
	OrderNo       string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	Page          int
	PageSize      int
}

// MovementListFilter narrows stock ledger listings.
type MovementListFilter struct {
	ProductID   uint
	VariantID   *uint
	Type        string
	Reason      string
	Reference   string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	PageSize    int
}

// AlertListFilter narrows stock alert listings.
type AlertListFilter struct {
	ProductID   uint
	OnlyPending bool
	Page        int
	PageSize    int
}

// ProductListFilter narrows public product listings.
type ProductListFilter struct {
	Keyword    string
	OnlyActive bool
	Page       int
	PageSize   int
}
