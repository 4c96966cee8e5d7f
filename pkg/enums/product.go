package enums

import "fmt"

// ProductCategory represents the canonical raw material categories supported by the catalog.
type ProductCategory string

const (
	ProductCategoryVegetable ProductCategory = "vegetable"
	ProductCategoryFruit     ProductCategory = "fruit"
	ProductCategoryGrain     ProductCategory = "grain"
	ProductCategorySpice     ProductCategory = "spice"
	ProductCategoryOil       ProductCategory = "oil"
	ProductCategoryDairy     ProductCategory = "dairy"
	ProductCategoryMeat      ProductCategory = "meat"
	ProductCategoryPulse     ProductCategory = "pulse"
	ProductCategoryPackaging ProductCategory = "packaging"
	ProductCategoryOther     ProductCategory = "other"
)

var validProductCategories = []ProductCategory{
	ProductCategoryVegetable,
	ProductCategoryFruit,
	ProductCategoryGrain,
	ProductCategorySpice,
	ProductCategoryOil,
	ProductCategoryDairy,
	ProductCategoryMeat,
	ProductCategoryPulse,
	ProductCategoryPackaging,
	ProductCategoryOther,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value matches a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductUnit defines the available unit types for pricing.
type ProductUnit string

const (
	ProductUnitKg    ProductUnit = "kg"
	ProductUnitGram  ProductUnit = "gram"
	ProductUnitLitre ProductUnit = "litre"
	ProductUnitDozen ProductUnit = "dozen"
	ProductUnitPiece ProductUnit = "piece"
	ProductUnitPack  ProductUnit = "pack"
)

var validProductUnits = []ProductUnit{
	ProductUnitKg,
	ProductUnitGram,
	ProductUnitLitre,
	ProductUnitDozen,
	ProductUnitPiece,
	ProductUnitPack,
}

// String implements fmt.Stringer.
func (u ProductUnit) String() string {
	return string(u)
}

// IsValid reports whether the value matches a known ProductUnit.
func (u ProductUnit) IsValid() bool {
	for _, candidate := range validProductUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseProductUnit converts raw input into a ProductUnit.
func ParseProductUnit(value string) (ProductUnit, error) {
	for _, candidate := range validProductUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product unit %q", value)
}
