package devserver

import (
	"time"

	"fitmrp-client/internal/pricing"

	"github.com/shopspring/decimal"
)

const (
	RoleAdmin    = 1
	RoleCustomer = 2

	roleNameAdmin    = "admin"
	roleNameCustomer = "cliente"

	MovementIn  = "entrada"
	MovementOut = "salida"
)

type userRecord struct {
	ID           uint
	Name         string
	Email        string
	PasswordHash string
	RoleID       int
}

func (u userRecord) roleName() string {
	if u.RoleID == RoleAdmin {
		return roleNameAdmin
	}
	return roleNameCustomer
}

type productRecord struct {
	ID          uint
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  uint
}

type categoryRecord struct {
	ID   uint
	Name string
}

type inventoryRecord struct {
	ID        uint
	ProductID uint
	Available int
}

type rawMaterialRecord struct {
	ID   uint
	Name string
}

type movementRecord struct {
	ID            uint
	Type          string
	Date          time.Time
	Notes         string
	ProductID     uint
	RawMaterialID uint
}

type orderRecord struct {
	ID     uint
	UserID uint
	Date   time.Time
	Lines  []pricing.Line
	Total  decimal.Decimal
}

type refundRecord struct {
	ID             string
	OrderID        uint
	Reason         string
	Status         string
	IdempotencyKey string
	CreatedAt      time.Time
}
