package model

import "fmt"

// Category classifies what kind of spending a gain avoided.
type Category string

const (
	CategoryFood     Category = "food"
	CategoryBeverage Category = "beverage"
	CategoryWork     Category = "work"
	CategoryShopping Category = "shopping"
	CategoryAlcohol  Category = "alcohol"
	CategoryGamble   Category = "gamble"
	CategoryOther    Category = "other"
)

// CategoryOrder is the fixed display order for categories.
var CategoryOrder = []Category{
	CategoryFood,
	CategoryBeverage,
	CategoryWork,
	CategoryShopping,
	CategoryAlcohol,
	CategoryGamble,
	CategoryOther,
}

// CategoryLabels maps categories to their Japanese display labels.
var CategoryLabels = map[Category]string{
	CategoryFood:     "食",
	CategoryBeverage: "飲み物",
	CategoryWork:     "仕事",
	CategoryShopping: "買い物",
	CategoryAlcohol:  "アルコール",
	CategoryGamble:   "ギャンブル",
	CategoryOther:    "その他",
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := CategoryLabels[c]
	return ok
}

// ParseCategory validates a raw string as a category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
