package model

import "time"

// Product is an inventory item that can be fed to the generator.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price,omitempty"`
	Style       string    `json:"style,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProductDraft is the product text submitted for script generation or for the
// inventory.
type ProductDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Style       string `json:"style"`
}
