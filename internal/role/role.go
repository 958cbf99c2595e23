// Package role holds the closed set of user roles known to the dashboard.
package role

import (
	"encoding/json"
	"fmt"
)

// Role is one of the fixed roles issued by the remote API.
type Role int

const (
	SalesGrocery Role = iota + 1
	SalesBakery
	Inventory
	Procurement
	Accountant
	Auditor
	Manager
)

// All lists every role in menu-definition order.
var All = []Role{SalesGrocery, SalesBakery, Inventory, Procurement, Accountant, Auditor, Manager}

// Code returns the wire value used by the remote API.
func (r Role) Code() string {
	switch r {
	case SalesGrocery:
		return "SALES_GROCERY"
	case SalesBakery:
		return "SALES_BAKERY"
	case Inventory:
		return "INVENTORY"
	case Procurement:
		return "PROCUREMENT"
	case Accountant:
		return "ACCOUNTANT"
	case Auditor:
		return "AUDITOR"
	case Manager:
		return "MANAGER"
	}

	return ""
}

// Label returns the human readable name shown in the header.
func (r Role) Label() string {
	switch r {
	case SalesGrocery:
		return "Sales (Grocery)"
	case SalesBakery:
		return "Sales (Bakery)"
	case Inventory:
		return "Inventory Clerk"
	case Procurement:
		return "Procurement"
	case Accountant:
		return "Accountant"
	case Auditor:
		return "Auditor"
	case Manager:
		return "Manager"
	}

	return ""
}

func (r Role) String() string { return r.Code() }

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r >= SalesGrocery && r <= Manager
}

// Parse maps a wire value to a Role.
func Parse(code string) (Role, error) {
	for _, r := range All {
		if r.Code() == code {
			return r, nil
		}
	}

	return 0, fmt.Errorf("unknown role %q", code)
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Code())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("decoding role: %w", err)
	}

	parsed, err := Parse(code)
	if err != nil {
		return err
	}

	*r = parsed

	return nil
}

// IsReadOnly reports whether the role may only look at data. Every page offering a
// mutating action hides it when this holds.
func IsReadOnly(r Role) bool {
	return r == Auditor
}

// GatedByOpeningBalance reports whether the role is blocked until the accounting
// period has been opened.
func GatedByOpeningBalance(r Role) bool {
	return r == Accountant || r == Manager
}
