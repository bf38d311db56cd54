package domain

import "math"

// LineItem is one product entry in the cart. Title, price and image are
// captured when the product is first added and are not refreshed afterwards.
type LineItem struct {
	ID       ID      `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url"`
	Quantity int     `json:"quantity"`
}

// Subtotal is price times quantity rounded to cents.
func (li LineItem) Subtotal() float64 {
	return float64(toCents(li.Price)*int64(li.Quantity)) / 100
}

type OrderItem struct {
	ProductID ID  `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// OrderPayload is the order submission body. Prices are resolved server-side.
type OrderPayload struct {
	Items []OrderItem `json:"items"`
}

type SummaryItem struct {
	ID       ID      `json:"id"`
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Subtotal float64 `json:"subtotal"`
}

type CartSummary struct {
	ItemCount   int           `json:"itemCount"`
	TotalAmount float64       `json:"totalAmount"`
	Items       []SummaryItem `json:"items"`
}

// CartValidation reports client-side pre-flight problems.
type CartValidation struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// SumLineItems returns the total quantity and the total amount of items.
func SumLineItems(items []LineItem) (int, float64) {
	var (
		count int
		cents int64
	)
	for _, it := range items {
		count += it.Quantity
		cents += toCents(it.Price) * int64(it.Quantity)
	}
	return count, float64(cents) / 100
}

func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}
