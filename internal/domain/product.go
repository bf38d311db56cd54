package domain

import "strings"

type ProductImage struct {
	ID  ID     `json:"id,omitempty"`
	URL string `json:"url"`
}

type Product struct {
	ID          ID             `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Price       float64        `json:"price"`
	Stock       int            `json:"stock,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	Images      []ProductImage `json:"images,omitempty"`
}

// PrimaryImage returns the explicit image url, falling back to the first gallery image.
func (p Product) PrimaryImage() string {
	if url := strings.TrimSpace(p.ImageURL); url != "" {
		return url
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}
