package grids

import (
	"fmt"

	"github.com/JonMunkholm/checkgrid/internal/store"
)

// Seed fills m with the demo tables. Rows are generated deterministically.
func Seed(m *store.MemoryProvider) {
	m.Put(OrdersTable, orders())
	m.Put(CustomersTable, customers())
	m.Put(InvoicesTable, invoices())
}

var customerNames = []string{
	"Acme Corp", "Globex", "Initech", "Umbrella", "Hooli",
	"Stark Industries", "Wayne Enterprises", "Wonka", "Soylent", "Tyrell",
	"Cyberdyne", "Vandelay",
}

var countries = []string{"DK", "DE", "US", "GB", "FR", "SE"}

func orders() []store.Row {
	statuses := []string{"open", "shipped", "flagged", "open", "cancelled"}
	rows := make([]store.Row, 0, 47)
	for i := 1; i <= 47; i++ {
		rows = append(rows, store.Row{
			Key: fmt.Sprintf("ORD-%04d", i),
			Values: store.Record{
				"customer":      customerNames[i%len(customerNames)],
				"status":        statuses[i%len(statuses)],
				"amount":        float64(i*37%500) + 0.99,
				"internal_note": fmt.Sprintf("batch %d", i/10),
			},
		})
	}
	return rows
}

func customers() []store.Row {
	rows := make([]store.Row, len(customerNames))
	for i, name := range customerNames {
		rows[i] = store.Row{
			Key: fmt.Sprintf("C%03d", i+1),
			Values: store.Record{
				"name":    name,
				"country": countries[i%len(countries)],
				"email":   fmt.Sprintf("billing%d@example.com", i+1),
			},
		}
	}
	return rows
}

func invoices() []store.Row {
	rows := make([]store.Row, 0, 23)
	for i := 1; i <= 23; i++ {
		rows = append(rows, store.Row{
			Key: fmt.Sprintf("INV-%d", 1000+i),
			Values: store.Record{
				"customer": customerNames[(i*5)%len(customerNames)],
				"total":    i * 120,
				"paid":     i%3 == 0,
			},
		})
	}
	return rows
}
