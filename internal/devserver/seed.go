package devserver

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	DemoEmail    = "demo@fitmrp.mx"
	DemoPassword = "demo1234"
)

// Seed loads a small gym-supply catalog and a demo customer account.
func Seed(s *Store) error {
	hash, err := HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}
	if _, err := s.CreateUser("Cliente Demo", DemoEmail, hash, RoleCustomer); err != nil {
		return err
	}

	supplements := s.AddCategory("Suplementos")
	equipment := s.AddCategory("Equipo")
	apparel := s.AddCategory("Ropa deportiva")

	products := []struct {
		name, description, price string
		category                 uint
		stock                    int
	}{
		{"Proteína Whey 2lb", "Proteína de suero sabor vainilla", "650.00", supplements, 40},
		{"Creatina 300g", "Monohidrato de creatina micronizada", "420.50", supplements, 25},
		{"Mancuernas 10kg (par)", "Mancuernas hexagonales recubiertas", "899.90", equipment, 12},
		{"Banda de resistencia", "Banda de látex, tensión media", "149.00", equipment, 60},
		{"Barra olímpica", "Barra de acero de 20kg", "2450.00", equipment, 5},
		{"Playera dry-fit", "Playera de poliéster transpirable", "299.00", apparel, 80},
	}
	for _, p := range products {
		s.AddProduct(productRecord{
			Name:        p.name,
			Description: p.description,
			Price:       decimal.RequireFromString(p.price),
			CategoryID:  p.category,
		}, p.stock)
	}

	s.AddRawMaterial("Suero de leche", "Lote SL-001: 200kg", "Lote SL-002: 150kg")
	s.AddRawMaterial("Monohidrato de creatina", "Lote MC-014: 50kg")
	s.AddRawMaterial("Acero", "Lote AC-220: 1.2t")
	s.AddRawMaterial("Látex")
	s.AddRawMaterial("Poliéster", "Lote PE-031: 300m")

	return nil
}
