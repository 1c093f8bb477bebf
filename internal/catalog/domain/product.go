package domain

import "time"

// FragranceNotes describes a perfume's scent pyramid.
type FragranceNotes struct {
	Top   []string `json:"top"`
	Heart []string `json:"heart"`
	Base  []string `json:"base"`
}

// Product is a catalog entry. PriceCents is the current list price in minor
// units; orders snapshot it at purchase time and are unaffected by later
// changes here.
type Product struct {
	ID           string          `json:"id"`
	Slug         string          `json:"slug"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	PriceCents   int64           `json:"priceCents"`
	Stock        int             `json:"stock"`
	Images       []string        `json:"images"`
	Notes        *FragranceNotes `json:"notes,omitempty"`
	IsFeatured   bool            `json:"isFeatured"`
	IsNew        bool            `json:"isNew"`
	CollectionID string          `json:"collectionId,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Collection groups products for merchandising.
type Collection struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
