package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/urbanshop/urbanshop-backend/pkg/db/models"
)

// ProductDTO is the wire representation of one catalog product. Price is
// rendered with two decimal places; the stored value keeps full precision.
type ProductDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Price       string    `json:"price"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Category    *string   `json:"category,omitempty"`
	PaymentLink *string   `json:"payment_link,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductListResult is one page of catalog products plus the next cursor.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

func productFromCreate(input CreateProductInput) models.Product {
	return models.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Price:       input.Price,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Category:    input.Category,
		PaymentLink: input.PaymentLink,
	}
}

func toProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	return &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Price:       product.Price.StringFixed(2),
		Description: product.Description,
		ImageURL:    product.ImageURL,
		Category:    product.Category,
		PaymentLink: product.PaymentLink,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
