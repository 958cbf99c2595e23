// Package nav declares the dashboard menu and filters it by role.
package nav

import (
	"slices"

	"github.com/MrJamesThe3rd/backoffice/internal/role"
)

const (
	PathHome           = "/dashboard"
	PathInventory      = "/dashboard/inventory"
	PathItems          = "/dashboard/items"
	PathSales          = "/dashboard/sales"
	PathCustomers      = "/dashboard/customers"
	PathProcurement    = "/dashboard/procurement"
	PathSuppliers      = "/dashboard/suppliers"
	PathExpenses       = "/dashboard/accounting/expenses"
	PathOpeningBalance = "/dashboard/accounting/opening-balance"
	PathBalance        = "/dashboard/accounting/balance"
	PathAudit          = "/dashboard/accounting/audit"
	PathRecalculate    = "/dashboard/accounting/recalculate"
)

// Entry is one menu destination. A nil Roles allow-list means every role.
type Entry struct {
	Path  string
	Label string
	Roles []role.Role
}

// Everyone reports whether the entry uses the wildcard allow-list.
func (e Entry) Everyone() bool {
	return e.Roles == nil
}

// Allows reports whether r may see the entry.
func (e Entry) Allows(r role.Role) bool {
	return e.Everyone() || slices.Contains(e.Roles, r)
}

// Entries is the menu in display order. It is never modified at runtime.
var Entries = []Entry{
	{Path: PathHome, Label: "Overview"},
	{
		Path:  PathInventory,
		Label: "Inventory",
		Roles: []role.Role{role.SalesGrocery, role.SalesBakery, role.Inventory, role.Manager, role.Auditor},
	},
	{
		Path:  PathItems,
		Label: "Items & prices",
		Roles: []role.Role{role.Inventory, role.Procurement, role.Manager, role.Auditor},
	},
	{
		Path:  PathSales,
		Label: "Sales invoices",
		Roles: []role.Role{role.SalesGrocery, role.SalesBakery, role.Accountant, role.Manager, role.Auditor},
	},
	{
		Path:  PathCustomers,
		Label: "Customers",
		Roles: []role.Role{role.SalesGrocery, role.SalesBakery, role.Accountant, role.Manager},
	},
	{
		Path:  PathProcurement,
		Label: "Procurement orders",
		Roles: []role.Role{role.Procurement, role.Inventory, role.Accountant, role.Manager, role.Auditor},
	},
	{
		Path:  PathSuppliers,
		Label: "Suppliers",
		Roles: []role.Role{role.Procurement, role.Manager},
	},
	{
		Path:  PathExpenses,
		Label: "Expenses",
		Roles: []role.Role{role.Accountant, role.Manager, role.Auditor},
	},
	{
		Path:  PathOpeningBalance,
		Label: "Opening balance",
		Roles: []role.Role{role.Accountant, role.Manager},
	},
	{
		Path:  PathBalance,
		Label: "Balance",
		Roles: []role.Role{role.Accountant, role.Manager, role.Auditor},
	},
	{
		Path:  PathAudit,
		Label: "Audit log",
		Roles: []role.Role{role.Auditor, role.Accountant, role.Manager},
	},
	{
		Path:  PathRecalculate,
		Label: "Recalculate totals",
		Roles: []role.Role{role.Manager},
	},
}

// Visible returns the entries r may see, in their original order.
func Visible(r role.Role, entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Allows(r) {
			out = append(out, e)
		}
	}

	return out
}

// IsActive reports whether e is the page at currentPath. Only exact matches count.
func IsActive(e Entry, currentPath string) bool {
	return e.Path == currentPath
}

// Lookup finds the entry whose path is the longest prefix of p, so that nested
// pages such as an invoice detail inherit the allow-list of their section.
func Lookup(entries []Entry, p string) (Entry, bool) {
	var (
		best  Entry
		found bool
	)

	for _, e := range entries {
		if p != e.Path && !hasSegmentPrefix(p, e.Path) {
			continue
		}

		if !found || len(e.Path) > len(best.Path) {
			best, found = e, true
		}
	}

	return best, found
}

// Allowed reports whether r may open path p. Paths outside the menu are allowed.
func Allowed(r role.Role, entries []Entry, p string) bool {
	e, ok := Lookup(entries, p)
	if !ok {
		return true
	}

	return e.Allows(r)
}

func hasSegmentPrefix(p, prefix string) bool {
	return len(p) > len(prefix) && p[:len(prefix)] == prefix && p[len(prefix)] == '/'
}
