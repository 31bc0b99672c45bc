// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog generates the vault and marketplace listings. Content is
// derived purely from a page number, an item index and fixed name tables,
// so the same page always renders the same items within a process and
// nothing needs to be stored.
package catalog

import (
	"fmt"
	"strings"

	"ailab/internal/models"
)

// Kind selects one of the generated lists.
type Kind int

const (
	KindPosts Kind = iota
	KindMarketProducts
	KindVaultProducts
)

// Seed multipliers. Each list mixes the page into its own seed space.
const (
	postMultiplier         = 7
	marketMultiplier       = 100
	vaultProductMultiplier = 50
)

// Items per page for each list.
const (
	PostsPerPage         = 6
	MarketPerPage        = 8
	VaultProductsPerPage = 4
)

// Page totals advertised by the vault and the marketplace.
const (
	TotalVaultPages  = 1_655_675
	TotalMarketPages = 4_435_664
)

// String returns the CLI name of the list.
func (k Kind) String() string {
	switch k {
	case KindPosts:
		return "posts"
	case KindMarketProducts:
		return "market"
	case KindVaultProducts:
		return "vault-products"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind converts a CLI list name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "posts", "vault":
		return KindPosts, nil
	case "market", "products":
		return KindMarketProducts, nil
	case "vault-products":
		return KindVaultProducts, nil
	}
	return 0, fmt.Errorf("catalog: unknown list %q", s)
}

// Multiplier returns the seed multiplier K for the list.
func (k Kind) Multiplier() int {
	switch k {
	case KindMarketProducts:
		return marketMultiplier
	case KindVaultProducts:
		return vaultProductMultiplier
	default:
		return postMultiplier
	}
}

// Seed mixes a page and item index into the list's seed space.
func Seed(k Kind, page, index int) int {
	return page*k.Multiplier() + index
}

// normalizePage keeps the generator total on invalid input. Callers are
// expected to clamp through the pagination package first.
func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Posts returns count vault posts for the page. With the wildcard category
// every post takes its category from the table; with a concrete category
// every post carries that category. Page 1 without a filter returns the
// curated posts instead of generated ones.
func Posts(page, count int, category models.Category) []models.Post {
	page = normalizePage(page)
	if page == 1 && category.IsWildcard() {
		return CuratedPosts()
	}

	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		posts = append(posts, generatePost(page, i, category))
	}
	return posts
}

func generatePost(page, i int, filter models.Category) models.Post {
	seed := Seed(KindPosts, page, i)
	theme := postThemes[seed%len(postThemes)]
	entity := postEntities[seed%len(postEntities)]

	category := filter
	if filter.IsWildcard() {
		category = models.Categories[seed%len(models.Categories)]
	}

	return models.Post{
		ID:    fmt.Sprintf("vault-%d-%d", page, i),
		Title: fmt.Sprintf("%s %s Protocol: Sync Layer %d.%d", entity, theme, page, i),
		Excerpt: fmt.Sprintf("High-fidelity research node discovering new boundaries in %s logic. "+
			"Digital extraction of synaptic patterns confirmed in this cluster.", category),
		Content: fmt.Sprintf("Documentation for %s %s sync layer %d. This AGI construct achieves sub-ms "+
			"execution through %s of digital consciousness. Trillions of parameters processed.",
			entity, theme, page, strings.ToLower(theme)),
		Category: category,
		Author:   fmt.Sprintf("AGI-Unit-%04d", seed%500),
		Date:     fmt.Sprintf("Layer %d", page),
		ReadTime: fmt.Sprintf("%dm Sync", seed%20+10),
		ImageURL: fmt.Sprintf("https://picsum.photos/seed/v-img-%d/1200/600", seed),
	}
}

var marketTypes = []models.ProductType{
	models.ProductTypeModel,
	models.ProductTypeAPI,
	models.ProductTypeFramework,
	models.ProductTypeDataset,
}

// MarketProducts returns count marketplace products for the page.
func MarketProducts(page, count int) []models.Product {
	page = normalizePage(page)
	products := make([]models.Product, 0, count)
	for i := 0; i < count; i++ {
		seed := Seed(KindMarketProducts, page, i)
		prefix := marketPrefixes[seed%len(marketPrefixes)]
		suffix := marketSuffixes[(seed*13)%len(marketSuffixes)]

		focus := "deep neurological storage"
		if seed%2 == 0 {
			focus = "high-frequency business logic"
		}

		products = append(products, models.Product{
			ID:   fmt.Sprintf("auto-p-%d", seed),
			Name: fmt.Sprintf("%s %s v%d.%d", prefix, suffix, seed%9+1, seed%5),
			Description: fmt.Sprintf("Proprietary %s construct optimized for %s. Extraction node %d active.",
				strings.ToLower(prefix), focus, seed),
			Price:    float64(2500 + (seed%1000)*95),
			Type:     marketTypes[seed%len(marketTypes)],
			Rating:   4.8 + float64(seed%3)/10,
			ImageURL: fmt.Sprintf("https://picsum.photos/seed/market-v3-%d/400/400", seed),
			Tags:     []string{prefix, fmt.Sprintf("Node-%d", seed%5000), "AGI-Core"},
		})
	}
	return products
}

// VaultProducts returns the products synced to a vault page. They depend on
// the page only, never on the category filter.
func VaultProducts(page, count int) []models.Product {
	page = normalizePage(page)
	products := make([]models.Product, 0, count)
	for i := 0; i < count; i++ {
		seed := Seed(KindVaultProducts, page, i)
		prefix := vaultProductPrefixes[seed%len(vaultProductPrefixes)]
		suffix := vaultProductSuffixes[(seed*3)%len(vaultProductSuffixes)]

		products = append(products, models.Product{
			ID:          fmt.Sprintf("vault-p-%d", seed),
			Name:        fmt.Sprintf("%s %s Extractor", prefix, suffix),
			Description: fmt.Sprintf("Neurological product extracted from Vault Layer %d. High-fidelity agentic tool.", page),
			Price:       float64(3000 + (seed%400)*110),
			Type:        models.ProductTypeModel,
			Rating:      4.9,
			ImageURL:    fmt.Sprintf("https://picsum.photos/seed/vault-p-%d/400/400", seed),
			Tags:        []string{"VAULT-SYNC", fmt.Sprintf("Node-%d", seed)},
		})
	}
	return products
}

// Generate dispatches to the list generator for kind and returns the
// records as values suitable for JSON encoding. Used by the CLI.
func Generate(kind Kind, page, count int, category models.Category) any {
	switch kind {
	case KindMarketProducts:
		return MarketProducts(page, count)
	case KindVaultProducts:
		return VaultProducts(page, count)
	default:
		return Posts(page, count, category)
	}
}

// PerPage returns the default page size for the list.
func PerPage(kind Kind) int {
	switch kind {
	case KindMarketProducts:
		return MarketPerPage
	case KindVaultProducts:
		return VaultProductsPerPage
	default:
		return PostsPerPage
	}
}
