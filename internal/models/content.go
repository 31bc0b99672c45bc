// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// ProductType classifies a marketplace product.
type ProductType string

const (
	ProductTypeDataset    ProductType = "DATASET"
	ProductTypeModel      ProductType = "MODEL"
	ProductTypePromptPack ProductType = "PROMPT_PACK"
	ProductTypeFramework  ProductType = "FRAMEWORK"
	ProductTypeAPI        ProductType = "API"
)

// Post is a vault research entry. Posts are either curated, drafted by the
// admin through the AI provider, or generated from a page seed.
type Post struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content"`
	Category Category `json:"category"`
	Author   string   `json:"author"`
	Date     string   `json:"date"`
	ReadTime string   `json:"readTime"`
	ImageURL string   `json:"imageUrl"`
}

// Product is a marketplace listing. Every "buy" action redirects to the
// same external checkout URL regardless of the product.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Type        ProductType `json:"type"`
	Rating      float64     `json:"rating"`
	ImageURL    string      `json:"imageUrl"`
	Tags        []string    `json:"tags"`
}
