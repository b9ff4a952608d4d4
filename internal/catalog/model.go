package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	UncategorizedName  = "Uncategorized"
	UnknownProductName = "Unknown product"
)

type Product struct {
	ID           string
	Name         string
	Description  string
	Price        decimal.Decimal
	CategoryID   string
	CategoryName string
}

type InventoryItem struct {
	ID        string
	Name      string
	Available int
}

type RawMaterial struct {
	ID   string
	Name string
}

// Movement is one entry in a product or raw material timeline.
type Movement struct {
	ID    string
	Type  string
	Date  time.Time
	Notes string
}
