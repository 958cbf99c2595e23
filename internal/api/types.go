package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/role"
)

// Numeric keeps a numeric field exactly as the API sent it. The API is not consistent
// about quoting amounts, so both JSON numbers and strings are accepted.
type Numeric string

func (n *Numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*n = Numeric(strings.TrimSpace(s))
	default:
		*n = Numeric(data)
	}

	return nil
}

// Decimal parses the value. ok is false when the text is not a number.
func (n Numeric) Decimal() (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

// PaymentMethod is how an invoice, order or expense was settled.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentBank   PaymentMethod = "BANK"
	PaymentCard   PaymentMethod = "CARD"
	PaymentCredit PaymentMethod = "CREDIT"
)

var PaymentMethods = []PaymentMethod{PaymentCash, PaymentBank, PaymentCard, PaymentCredit}

func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Cash"
	case PaymentBank:
		return "Bank transfer"
	case PaymentCard:
		return "Card"
	case PaymentCredit:
		return "Credit"
	}

	return "Other"
}

// InvoiceStatus is the lifecycle state of a sales invoice.
type InvoiceStatus string

const (
	InvoiceUnpaid    InvoiceStatus = "UNPAID"
	InvoicePartial   InvoiceStatus = "PARTIAL"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceConfirmed InvoiceStatus = "CONFIRMED"
	InvoiceDelivered InvoiceStatus = "DELIVERED"
)

func (s InvoiceStatus) Label() string {
	switch s {
	case InvoiceUnpaid:
		return "Unpaid"
	case InvoicePartial:
		return "Partially paid"
	case InvoicePaid:
		return "Paid"
	case InvoiceConfirmed:
		return "Payment confirmed"
	case InvoiceDelivered:
		return "Delivered"
	}

	return "Unknown"
}

// OrderStatus is the lifecycle state of a procurement order.
type OrderStatus string

const (
	OrderPending         OrderStatus = "PENDING"
	OrderPaid            OrderStatus = "PAID"
	OrderPartialReceived OrderStatus = "PARTIALLY_RECEIVED"
	OrderReceived        OrderStatus = "RECEIVED"
)

func (s OrderStatus) Label() string {
	switch s {
	case OrderPending:
		return "Pending"
	case OrderPaid:
		return "Paid"
	case OrderPartialReceived:
		return "Partially received"
	case OrderReceived:
		return "Received"
	}

	return "Unknown"
}

// CustomerType separates walk-in buyers from wholesale accounts.
type CustomerType string

const (
	CustomerRetail    CustomerType = "RETAIL"
	CustomerWholesale CustomerType = "WHOLESALE"
)

func (t CustomerType) Label() string {
	switch t {
	case CustomerRetail:
		return "Retail"
	case CustomerWholesale:
		return "Wholesale"
	}

	return "Unknown"
}

// Section is a division of the store; inventories and customers belong to one.
type Section string

const (
	SectionGrocery Section = "GROCERY"
	SectionBakery  Section = "BAKERY"
)

var Sections = []Section{SectionGrocery, SectionBakery}

func (s Section) Label() string {
	switch s {
	case SectionGrocery:
		return "Grocery"
	case SectionBakery:
		return "Bakery"
	}

	return "All sections"
}

// SectionFor returns the store section a sales role works in.
func SectionFor(r role.Role) (Section, bool) {
	switch r {
	case role.SalesGrocery:
		return SectionGrocery, true
	case role.SalesBakery:
		return SectionBakery, true
	}

	return "", false
}

// AccountBucket is one of the ledger buckets an opening balance is recorded for.
type AccountBucket string

const (
	BucketCash       AccountBucket = "cash"
	BucketBank       AccountBucket = "bank"
	BucketReceivable AccountBucket = "receivable"
	BucketInventory  AccountBucket = "inventory"
)

var AccountBuckets = []AccountBucket{BucketCash, BucketBank, BucketReceivable, BucketInventory}

func (b AccountBucket) Label() string {
	switch b {
	case BucketCash:
		return "Cash on hand"
	case BucketBank:
		return "Bank"
	case BucketReceivable:
		return "Receivables"
	case BucketInventory:
		return "Inventory value"
	}

	return "Other"
}

type User struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Role     role.Role `json:"role"`
}

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Inventory struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Location string  `json:"location"`
	Section  Section `json:"section"`
}

type Stock struct {
	ItemID   string  `json:"itemId"`
	ItemName string  `json:"itemName"`
	Section  Section `json:"section"`
	Quantity Numeric `json:"quantity"`
	Unit     string  `json:"unit"`
}

type Item struct {
	ID        string  `json:"id"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	Section   Section `json:"section"`
	BuyPrice  Numeric `json:"buyPrice"`
	SellPrice Numeric `json:"sellPrice"`
}

type CreateItemInput struct {
	SKU       string  `json:"sku" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Unit      string  `json:"unit" validate:"required"`
	Section   Section `json:"section" validate:"required,oneof=GROCERY BAKERY"`
	BuyPrice  string  `json:"buyPrice" validate:"required,numeric"`
	SellPrice string  `json:"sellPrice" validate:"required,numeric"`
}

type ItemPricesInput struct {
	BuyPrice  string `json:"buyPrice" validate:"required,numeric"`
	SellPrice string `json:"sellPrice" validate:"required,numeric"`
}

type Customer struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Type     CustomerType `json:"type"`
	Division Section      `json:"division"`
	Phone    string       `json:"phone"`
	Address  string       `json:"address"`
}

type CustomerFilter struct {
	Type     CustomerType
	Division Section
}

type CreateCustomerInput struct {
	Name     string       `json:"name" validate:"required"`
	Type     CustomerType `json:"type" validate:"required,oneof=RETAIL WHOLESALE"`
	Division Section      `json:"division" validate:"required,oneof=GROCERY BAKERY"`
	Phone    string       `json:"phone"`
	Address  string       `json:"address"`
}

type Supplier struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type CreateSupplierInput struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Line struct {
	ItemID    string  `json:"itemId" validate:"required"`
	ItemName  string  `json:"itemName,omitempty"`
	Quantity  Numeric `json:"quantity" validate:"required"`
	UnitPrice Numeric `json:"unitPrice" validate:"required"`
}

type Payment struct {
	Amount    Numeric       `json:"amount"`
	Method    PaymentMethod `json:"method"`
	Reference string        `json:"reference,omitempty"`
	PaidAt    *time.Time    `json:"paidAt,omitempty"`
}

type SalesInvoice struct {
	ID           string        `json:"id"`
	Number       string        `json:"number"`
	CustomerID   string        `json:"customerId"`
	CustomerName string        `json:"customerName"`
	InventoryID  string        `json:"inventoryId"`
	Date         time.Time     `json:"date"`
	Total        Numeric       `json:"total"`
	Paid         Numeric       `json:"paid"`
	Status       InvoiceStatus `json:"status"`
	Lines        []Line        `json:"lines,omitempty"`
	Payments     []Payment     `json:"payments,omitempty"`
}

type CreateInvoiceInput struct {
	CustomerID  string `json:"customerId" validate:"required"`
	InventoryID string `json:"inventoryId" validate:"required"`
	Lines       []Line `json:"lines" validate:"required,min=1,dive"`
}

type PaymentInput struct {
	Amount    string        `json:"amount" validate:"required,numeric"`
	Method    PaymentMethod `json:"method" validate:"required,oneof=CASH BANK CARD CREDIT"`
	Reference string        `json:"reference,omitempty"`
}

type ProcurementOrder struct {
	ID           string      `json:"id"`
	Number       string      `json:"number"`
	SupplierID   string      `json:"supplierId"`
	SupplierName string      `json:"supplierName"`
	InventoryID  string      `json:"inventoryId"`
	Date         time.Time   `json:"date"`
	Total        Numeric     `json:"total"`
	Status       OrderStatus `json:"status"`
	Lines        []Line      `json:"lines,omitempty"`
}

type CreateOrderInput struct {
	SupplierID  string        `json:"supplierId" validate:"required"`
	InventoryID string        `json:"inventoryId" validate:"required"`
	Method      PaymentMethod `json:"paymentMethod" validate:"required,oneof=CASH BANK CARD CREDIT"`
	Lines       []Line        `json:"lines" validate:"required,min=1,dive"`
}

type Expense struct {
	ID          string        `json:"id"`
	Date        time.Time     `json:"date"`
	Description string        `json:"description"`
	Type        string        `json:"type"`
	Amount      Numeric       `json:"amount"`
	Method      PaymentMethod `json:"method"`
}

type CreateExpenseInput struct {
	Date        string        `json:"date" validate:"required,datetime=2006-01-02"`
	Description string        `json:"description" validate:"required"`
	Type        string        `json:"type" validate:"required"`
	Amount      string        `json:"amount" validate:"required,numeric"`
	Method      PaymentMethod `json:"method" validate:"required,oneof=CASH BANK CARD CREDIT"`
}

// OpeningBalances maps each bucket to its opening amount.
type OpeningBalances map[AccountBucket]Numeric

type SetOpeningBalancesInput struct {
	PeriodStart string                   `json:"periodStart" validate:"required,datetime=2006-01-02"`
	Balances    map[AccountBucket]string `json:"balances" validate:"required,dive,required,numeric"`
}

type BalanceSummary struct {
	Buckets map[string]Numeric `json:"buckets"`
	Total   Numeric            `json:"total"`
}

type AuditLog struct {
	ID       string    `json:"id"`
	At       time.Time `json:"createdAt"`
	UserName string    `json:"userName"`
	Action   string    `json:"action"`
	Entity   string    `json:"entity"`
	EntityID string    `json:"entityId"`
	Details  string    `json:"details"`
}

type RecalculateInput struct {
	StartDate   string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"endDate" validate:"required,datetime=2006-01-02"`
	InventoryID string  `json:"inventoryId,omitempty"`
	Section     Section `json:"section,omitempty"`
}
