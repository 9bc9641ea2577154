package auth

import "sort"

// Role of a shop account.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleEmployee Role = "employee"
)

// Valid reports a known role.
func (r Role) Valid() bool {
	_, ok := permissionTable[r]
	return ok
}

// Permission names an action checked at the HTTP boundary.
type Permission string

const (
	PermProductsRead   Permission = "products:read"
	PermProductsWrite  Permission = "products:write"
	PermSuppliersRead  Permission = "suppliers:read"
	PermSuppliersWrite Permission = "suppliers:write"
	PermSalesCreate    Permission = "sales:create"
	PermSalesRead      Permission = "sales:read"
	PermPurchasesRead  Permission = "purchases:read"
	PermPurchasesWrite Permission = "purchases:write"
	PermPaymentsRead   Permission = "payments:read"
	PermPaymentsWrite  Permission = "payments:write"
	PermLotsRead       Permission = "lots:read"
	PermLotsWrite      Permission = "lots:write"
	PermReportsRead    Permission = "reports:read"
	PermAlertsRead     Permission = "alerts:read"
	PermUsersWrite     Permission = "users:write"
)

var permissionTable = map[Role]map[Permission]bool{
	RoleOwner: {
		PermProductsRead:   true,
		PermProductsWrite:  true,
		PermSuppliersRead:  true,
		PermSuppliersWrite: true,
		PermSalesCreate:    true,
		PermSalesRead:      true,
		PermPurchasesRead:  true,
		PermPurchasesWrite: true,
		PermPaymentsRead:   true,
		PermPaymentsWrite:  true,
		PermLotsRead:       true,
		PermLotsWrite:      true,
		PermReportsRead:    true,
		PermAlertsRead:     true,
		PermUsersWrite:     true,
	},
	RoleEmployee: {
		PermProductsRead:  true,
		PermSuppliersRead: true,
		PermSalesCreate:   true,
		PermSalesRead:     true,
		PermLotsRead:      true,
		PermAlertsRead:    true,
	},
}

// Can reports whether role holds perm.
func Can(role Role, perm Permission) bool {
	return permissionTable[role][perm]
}

// Permissions lists what role may do.
func Permissions(role Role) []Permission {
	out := make([]Permission, 0, len(permissionTable[role]))
	for p, ok := range permissionTable[role] {
		if ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
