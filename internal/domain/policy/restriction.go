package policy

import (
	"strings"

	"tabletab/internal/domain/entity"
)

// restrictedTokens are category-name fragments that mark a category as
// age-restricted. Matching is case-insensitive substring matching, so a
// name like "Käsitööõlu" is caught by "õlu". This is a heuristic string
// classifier, not a product attribute lookup; a per-product flag from the
// catalog should eventually replace it.
var restrictedTokens = []string{
	"õlu",
	"beer",
	"siider",
	"cider",
	"shot",
	"longero",
	"long drink",
	"kokteil",
	"cocktail",
	"alkohol",
	"alcohol",
}

// nonAlcoholicTokens override the restricted set: a category naming
// itself non-alcoholic is never restricted even when it also matches a
// restricted token ("Alkovaba õlu").
var nonAlcoholicTokens = []string{
	"alkovaba",
	"alkoholivaba",
	"non-alcoholic",
	"alcohol-free",
	"alkoholi-vaba",
}

// IsRestrictedCategory reports whether a category name requires age
// verification before purchase.
func IsRestrictedCategory(name string) bool {
	lower := strings.ToLower(name)

	for _, token := range nonAlcoholicTokens {
		if strings.Contains(lower, token) {
			return false
		}
	}

	for _, token := range restrictedTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}

	return false
}

// CartRequiresVerification reports whether any cart line with quantity
// above zero resolves to a restricted category. Unresolvable lines are
// ignored; they carry no category to classify.
func CartRequiresVerification(cart *entity.Cart, index entity.ProductIndex) bool {
	for _, id := range cart.ProductIDs() {
		if cart.Quantity(id) <= 0 {
			continue
		}
		product, ok := index.Resolve(id)
		if !ok {
			continue
		}
		if IsRestrictedCategory(product.Category) {
			return true
		}
	}

	return false
}
