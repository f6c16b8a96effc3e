package catalog

import (
	"strings"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
)

// MatchesSearch reports whether query is a case-insensitive substring of the
// product name or description. An empty query matches everything.
func MatchesSearch(p entity.Product, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

// MatchesCategory matches "Featured" against the featured flag only, "" against
// everything and anything else against the exact category name.
func MatchesCategory(p entity.Product, category string) bool {
	switch category {
	case "":
		return true
	case entity.FeaturedCategory:
		return p.IsFeatured
	default:
		return p.Category == category
	}
}

// FilterProducts returns the products matching both the query and the
// category, in input order. The input slice is left untouched.
func FilterProducts(products []entity.Product, query, category string) []entity.Product {
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if MatchesSearch(p, query) && MatchesCategory(p, category) {
			out = append(out, p)
		}
	}
	return out
}
