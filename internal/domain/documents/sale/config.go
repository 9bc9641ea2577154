package sale

// NumberPrefix is the prefix of sale numbers: V-2025-00001.
const NumberPrefix = "V"

// DefaultPaymentMethod is used when a sale carries none.
const DefaultPaymentMethod = "cash"
