// Package bootstrap prepares a fresh deployment: it seeds the catalog with
// the sample products so the storefront is browsable out of the box.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/attire-shop/attire/internal/domain"
	"github.com/attire-shop/attire/internal/postgres"
)

type seedProduct struct {
	name          string
	description   string
	price         float64
	originalPrice float64
	images        []string
	category      string
	gender        string
	sizes         []string
	colors        []string
	rating        float64
	reviews       int
	stock         int
}

var catalog = []seedProduct{
	{
		name:          "Classic White Sneakers",
		description:   "Timeless white sneakers crafted for comfort and style. Perfect for any casual or semi-formal occasion, these sneakers feature a durable sole and breathable material.",
		price:         89.99,
		originalPrice: 120.00,
		images:        []string{"/placeholder.svg?height=300&width=300"},
		category:      "Shoes",
		gender:        "Unisex",
		sizes:         []string{"7", "8", "9", "10", "11"},
		colors:        []string{"White", "Black"},
		rating:        4.5,
		reviews:       128,
		stock:         50,
	},
	{
		name:          "Premium Denim Jacket",
		description:   "A classic denim jacket made from high-quality materials. Features a modern fit, sturdy buttons, and versatile style for layering in any season.",
		price:         159.99,
		originalPrice: 199.99,
		images:        []string{"/placeholder.svg?height=300&width=300"},
		category:      "Jackets",
		gender:        "Men",
		sizes:         []string{"S", "M", "L", "XL"},
		colors:        []string{"Blue", "Black"},
		rating:        4.8,
		reviews:       89,
		stock:         50,
	},
	{
		name:          "Elegant Summer Dress",
		description:   "Lightweight and breezy, this summer dress is perfect for warm days and special occasions. Features a flattering silhouette and vibrant colors.",
		price:         79.99,
		originalPrice: 99.99,
		images:        []string{"/placeholder.svg?height=300&width=300"},
		category:      "Dresses",
		gender:        "Women",
		sizes:         []string{"XS", "S", "M", "L"},
		colors:        []string{"Pink", "Blue", "White"},
		rating:        4.6,
		reviews:       156,
		stock:         50,
	},
	{
		name:          "Casual Cotton T-Shirt",
		description:   "Soft, breathable cotton t-shirt designed for everyday comfort. Available in a range of colors and sizes to suit any wardrobe.",
		price:         24.99,
		originalPrice: 34.99,
		images:        []string{"/placeholder.svg?height=300&width=300"},
		category:      "T-Shirts",
		gender:        "Unisex",
		sizes:         []string{"XS", "S", "M", "L", "XL", "XXL"},
		colors:        []string{"White", "Black", "Gray", "Navy"},
		rating:        4.3,
		reviews:       234,
		stock:         50,
	},
	{
		name:          "Sport Running Shoes",
		description:   "Engineered for performance, these running shoes offer superior cushioning and support. Ideal for athletes and casual runners alike.",
		price:         129.99,
		originalPrice: 159.99,
		images:        []string{"/placeholder.svg?height=300&width=300"},
		category:      "Shoes",
		gender:        "Unisex",
		sizes:         []string{"6", "7", "8", "9", "10", "11", "12"},
		colors:        []string{"Black", "Red", "Blue"},
		rating:        4.7,
		reviews:       98,
		stock:         50,
	},
	{
		name:          "Leather Handbag",
		description:   "Elegant and spacious, this leather handbag is perfect for daily use or special occasions. Features multiple compartments and a timeless design.",
		price:         199.99,
		originalPrice: 249.99,
		images:        []string{"/placeholder.svg?height=300&width=300"},
		category:      "Bags",
		gender:        "Women",
		sizes:         []string{"One Size"},
		colors:        []string{"Brown", "Black", "Tan"},
		rating:        4.9,
		reviews:       67,
		stock:         0,
	},
}

// SeedCatalog inserts the sample products when the products table is empty.
// A non-empty table is left untouched so redeploys never duplicate rows.
func SeedCatalog(ctx context.Context, db postgres.DB, logger *slog.Logger) error {
	const op = "bootstrap.seed_catalog"

	products := postgres.NewProductStore(db)

	count, err := products.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting products: %w", err)
	}
	if count > 0 {
		logger.Debug("catalog already seeded", "products", count)
		return nil
	}

	for _, p := range catalog {
		_, err := db.Exec(ctx, `
			INSERT INTO products (name, description, price, original_price, images,
				category, gender, sizes, colors, rating, reviews, stock)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			p.name, p.description, p.price, p.originalPrice, p.images,
			p.category, p.gender, p.sizes, p.colors, p.rating, p.reviews, p.stock,
		)
		if err != nil {
			return domain.Internal(err, op, "Failed to seed catalog")
		}
	}

	logger.Info("catalog seeded", "products", len(catalog))
	return nil
}
