package domain

// Order is the storefront API's view of a submitted order.
type Order struct {
	ID        ID          `json:"id"`
	Status    string      `json:"status,omitempty"`
	Total     float64     `json:"total,omitempty"`
	Items     []OrderItem `json:"items,omitempty"`
	CreatedAt string      `json:"created_at,omitempty"`
}
