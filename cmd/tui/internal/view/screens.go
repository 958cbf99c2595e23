package view

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"

	"github.com/MrJamesThe3rd/backoffice/internal/aggregate"
	"github.com/MrJamesThe3rd/backoffice/internal/api"
	"github.com/MrJamesThe3rd/backoffice/internal/session"
)

// FormatDate renders a date column.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Format(time.DateOnly)
}

func groupHeader(res aggregate.Result, label func(string) string) string {
	parts := make([]string, 0, len(res))
	for _, g := range res.Sorted() {
		parts = append(parts, fmt.Sprintf("%s: %s (%d)", label(g.Key), activeStyle(money(g.Total)), g.Count))
	}

	return strings.Join(parts, " | ")
}

// NewOverview lists the inventories and, when shown, the balance totals.
func NewOverview(client *api.Client, id session.Identity, withBalance bool) *TableModel {
	return NewTableModel("Overview", func(ctx context.Context) (Sheet, error) {
		invs, err := client.ListInventories(ctx)
		if err != nil {
			return Sheet{}, err
		}

		sheet := Sheet{
			Columns: []table.Column{{Title: "Inventory", Width: 24}, {Title: "Location", Width: 24}, {Title: "Section", Width: 14}},
			Header:  fmt.Sprintf("Signed in as %s (%s)", id.Name(), id.Role().Label()),
		}

		for _, inv := range invs {
			sheet.Rows = append(sheet.Rows, table.Row{inv.Name, inv.Location, inv.Section.Label()})
		}

		if withBalance {
			if sum, err := client.BalanceSummary(ctx); err == nil {
				sheet.Header += "\nBalance total: " + activeStyle(FormatAmount(sum.Total))
			}
		}

		return sheet, nil
	})
}

// NewInventory shows the stock of the first inventory, limited to the user's
// section for sales roles.
func NewInventory(client *api.Client, id session.Identity) *TableModel {
	return NewTableModel("Inventory", func(ctx context.Context) (Sheet, error) {
		invs, err := client.ListInventories(ctx)
		if err != nil {
			return Sheet{}, err
		}

		sheet := Sheet{
			Columns: []table.Column{{Title: "Item", Width: 30}, {Title: "Section", Width: 14}, {Title: "Quantity", Width: 12}, {Title: "Unit", Width: 8}},
		}

		if len(invs) == 0 {
			sheet.Header = "No inventories."
			return sheet, nil
		}

		section, _ := api.SectionFor(id.Role())

		stocks, err := client.InventoryStocks(ctx, invs[0].ID, section)
		if err != nil {
			return Sheet{}, err
		}

		sheet.Header = fmt.Sprintf("%s | %s", invs[0].Name, section.Label())

		for _, s := range stocks {
			sheet.Rows = append(sheet.Rows, table.Row{s.ItemName, s.Section.Label(), FormatQuantity(s.Quantity), s.Unit})
		}

		return sheet, nil
	})
}

func NewItems(client *api.Client) *TableModel {
	return NewTableModel("Items & prices", func(ctx context.Context) (Sheet, error) {
		items, err := client.ListItems(ctx)
		if err != nil {
			return Sheet{}, err
		}

		sheet := Sheet{
			Columns: []table.Column{{Title: "SKU", Width: 10}, {Title: "Name", Width: 28}, {Title: "Section", Width: 12}, {Title: "Buy", Width: 12}, {Title: "Sell", Width: 12}},
		}

		for _, it := range items {
			sheet.Rows = append(sheet.Rows, table.Row{it.SKU, it.Name, it.Section.Label(), FormatAmount(it.BuyPrice), FormatAmount(it.SellPrice)})
		}

		return sheet, nil
	})
}

// NewSales lists invoices with totals grouped by status.
func NewSales(client *api.Client) *TableModel {
	return NewTableModel("Sales invoices", func(ctx context.Context) (Sheet, error) {
		invoices, err := client.ListSalesInvoices(ctx)
		if err != nil {
			return Sheet{}, err
		}

		byStatus := aggregate.By(invoices,
			func(i api.SalesInvoice) string { return string(i.Status) },
			func(i api.SalesInvoice) string { return string(i.Total) },
		)

		sheet := Sheet{
			Columns: []table.Column{{Title: "Number", Width: 12}, {Title: "Date", Width: 12}, {Title: "Customer", Width: 24}, {Title: "Total", Width: 14}, {Title: "Status", Width: 18}},
			Header:  groupHeader(byStatus, func(k string) string { return api.InvoiceStatus(k).Label() }),
		}

		for _, inv := range invoices {
			sheet.Rows = append(sheet.Rows, table.Row{inv.Number, FormatDate(inv.Date), inv.CustomerName, FormatAmount(inv.Total), inv.Status.Label()})
		}

		return sheet, nil
	})
}

func NewCustomers(client *api.Client, id session.Identity) *TableModel {
	return NewTableModel("Customers", func(ctx context.Context) (Sheet, error) {
		var filter api.CustomerFilter
		if s, ok := api.SectionFor(id.Role()); ok {
			filter.Division = s
		}

		customers, err := client.ListCustomers(ctx, filter)
		if err != nil {
			return Sheet{}, err
		}

		sheet := Sheet{
			Columns: []table.Column{{Title: "Name", Width: 28}, {Title: "Type", Width: 12}, {Title: "Division", Width: 12}, {Title: "Phone", Width: 16}},
		}

		for _, c := range customers {
			sheet.Rows = append(sheet.Rows, table.Row{c.Name, c.Type.Label(), c.Division.Label(), c.Phone})
		}

		return sheet, nil
	})
}

// NewProcurement lists orders with totals grouped by status.
func NewProcurement(client *api.Client) *TableModel {
	return NewTableModel("Procurement orders", func(ctx context.Context) (Sheet, error) {
		orders, err := client.ListProcurementOrders(ctx)
		if err != nil {
			return Sheet{}, err
		}

		byStatus := aggregate.By(orders,
			func(o api.ProcurementOrder) string { return string(o.Status) },
			func(o api.ProcurementOrder) string { return string(o.Total) },
		)

		sheet := Sheet{
			Columns: []table.Column{{Title: "Number", Width: 12}, {Title: "Date", Width: 12}, {Title: "Supplier", Width: 24}, {Title: "Total", Width: 14}, {Title: "Status", Width: 20}},
			Header:  groupHeader(byStatus, func(k string) string { return api.OrderStatus(k).Label() }),
		}

		for _, o := range orders {
			sheet.Rows = append(sheet.Rows, table.Row{o.Number, FormatDate(o.Date), o.SupplierName, FormatAmount(o.Total), o.Status.Label()})
		}

		return sheet, nil
	})
}

func NewSuppliers(client *api.Client) *TableModel {
	return NewTableModel("Suppliers", func(ctx context.Context) (Sheet, error) {
		suppliers, err := client.ListSuppliers(ctx)
		if err != nil {
			return Sheet{}, err
		}

		sheet := Sheet{
			Columns: []table.Column{{Title: "Name", Width: 28}, {Title: "Phone", Width: 16}, {Title: "Address", Width: 36}},
		}

		for _, s := range suppliers {
			sheet.Rows = append(sheet.Rows, table.Row{s.Name, s.Phone, s.Address})
		}

		return sheet, nil
	})
}

func NewBalance(client *api.Client) *TableModel {
	return NewTableModel("Balance", func(ctx context.Context) (Sheet, error) {
		sum, err := client.BalanceSummary(ctx)
		if err != nil {
			return Sheet{}, err
		}

		sheet := Sheet{
			Columns: []table.Column{{Title: "Account", Width: 24}, {Title: "Amount", Width: 16}},
			Header:  "Total: " + activeStyle(FormatAmount(sum.Total)),
		}

		for _, k := range slices.Sorted(maps.Keys(sum.Buckets)) {
			sheet.Rows = append(sheet.Rows, table.Row{k, FormatAmount(sum.Buckets[k])})
		}

		return sheet, nil
	})
}

func NewAudit(client *api.Client) *TableModel {
	return NewTableModel("Audit log", func(ctx context.Context) (Sheet, error) {
		logs, err := client.AuditLogs(ctx)
		if err != nil {
			return Sheet{}, err
		}

		sheet := Sheet{
			Columns: []table.Column{{Title: "When", Width: 17}, {Title: "User", Width: 16}, {Title: "Action", Width: 14}, {Title: "Entity", Width: 16}, {Title: "Details", Width: 30}},
		}

		for _, l := range logs {
			sheet.Rows = append(sheet.Rows, table.Row{l.At.Format("2006-01-02 15:04"), l.UserName, l.Action, l.Entity, l.Details})
		}

		return sheet, nil
	})
}
