package domain

import "time"

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

func ValidDiscountType(t DiscountType) bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

// DiscountCode is a checkout code an admin hands out. Codes are stored
// uppercase; UsageLimit and ExpiresAt are nil when unbounded.
type DiscountCode struct {
	ID          int64        `json:"id"`
	Code        string       `json:"code"`
	Type        DiscountType `json:"type"`
	Value       float64      `json:"value"`
	MinQuantity int          `json:"minQuantity"`
	UsageLimit  *int         `json:"usageLimit"`
	UsedCount   int          `json:"usedCount"`
	IsActive    bool         `json:"isActive"`
	ExpiresAt   *time.Time   `json:"expiresAt"`
	CreatedAt   time.Time    `json:"createdAt"`
}
