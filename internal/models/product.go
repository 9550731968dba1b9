package models

// Product is a read-only catalog entry.
type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"desc"`
	Image       string  `json:"img"`
	Seller      *Seller `json:"seller,omitempty"`
}

// Seller is the contact card shown on a product page.
type Seller struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Ratings int    `json:"ratings"`
	Pic     string `json:"pic"`
}

// CartItem is a mock cart line.
type CartItem struct {
	Name  string `json:"name"`
	Image string `json:"img"`
}
