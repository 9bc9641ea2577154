package purchase

// NumberPrefix is the prefix of internal purchase numbers: C-2025-00001.
const NumberPrefix = "C"

// LotPrefix builds the numbering prefix of lots opened for a product: LOT-ABC-2025-00001.
func LotPrefix(productCode string) string {
	return "LOT-" + productCode
}

// DefaultShelfLifeDays is the expiry applied to lots received without one.
const DefaultShelfLifeDays = 30
