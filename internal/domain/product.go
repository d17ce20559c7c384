package domain

import "time"

type Product struct {
	ID        int64     `json:"id"`
	ImageURL  string    `json:"imageUrl"`
	VideoURL  string    `json:"videoUrl,omitempty"`
	Price     float64   `json:"price"`
	Sizes     []string  `json:"sizes"`
	Position  int       `json:"position"`
	IsSold    bool      `json:"isSold"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
