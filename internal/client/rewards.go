package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrInsufficientPoints is returned when the user's score cannot cover a
// product. The check runs before any request is made.
var ErrInsufficientPoints = errors.New("not enough points")

// Product is a reward that can be redeemed with sustainability points.
type Product struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	EcoScore    int    `json:"eco_score"`
	PricePoints int    `json:"pricePoints"`
}

var catalog = []Product{
	{ID: 1, Name: "Bamboo Toothbrush Set", Category: "Personal Care", Description: "Biodegradable bamboo toothbrushes", EcoScore: 95, PricePoints: 160},
	{ID: 2, Name: "Reusable Water Bottle", Category: "Kitchen", Description: "Stainless steel, BPA-free", EcoScore: 90, PricePoints: 250},
	{ID: 3, Name: "Organic Cotton Tote", Category: "Accessories", Description: "Durable and eco-friendly", EcoScore: 88, PricePoints: 130},
	{ID: 4, Name: "Solar Power Bank", Category: "Electronics", Description: "Charge with solar energy", EcoScore: 85, PricePoints: 500},
	{ID: 5, Name: "Beeswax Food Wraps", Category: "Kitchen", Description: "Replace plastic wrap naturally", EcoScore: 92, PricePoints: 190},
	{ID: 6, Name: "LED Light Bulbs", Category: "Home", Description: "Energy-efficient lighting", EcoScore: 94, PricePoints: 300},
}

// Catalog returns the redeemable products.
func Catalog() []Product {
	out := make([]Product, len(catalog))
	copy(out, catalog)
	return out
}

// FindProduct looks a product up by id.
func FindProduct(id int) (Product, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// RedeemResult carries the user's point balance after redemption.
type RedeemResult struct {
	RemainingPoints Number `json:"remainingPoints"`
	Message         string `json:"message"`
}

// Redeem spends points on a product. balance is the user's current score;
// redemption is refused locally when it is below the product price.
func (c *Client) Redeem(ctx context.Context, product Product, balance float64) (*RedeemResult, error) {
	if balance < float64(product.PricePoints) {
		return nil, fmt.Errorf("%w: %s costs %d, balance is %.0f", ErrInsufficientPoints, product.Name, product.PricePoints, balance)
	}

	type details struct {
		Description string `json:"description"`
		Category    string `json:"category"`
		EcoScore    int    `json:"eco_score"`
		PricePoints int    `json:"pricePoints"`
	}
	body := struct {
		ProductID      int     `json:"productId"`
		ProductName    string  `json:"productName"`
		ProductDetails details `json:"productDetails"`
	}{
		ProductID:   product.ID,
		ProductName: product.Name,
		ProductDetails: details{
			Description: product.Description,
			Category:    product.Category,
			EcoScore:    product.EcoScore,
			PricePoints: product.PricePoints,
		},
	}

	var res RedeemResult
	err := c.do(ctx, call{
		op:     "rewards.redeem",
		method: http.MethodPost,
		path:   "/rewards/redeem",
		body:   body,
	}, &res)
	if err != nil {
		return nil, err
	}

	return &res, nil
}
