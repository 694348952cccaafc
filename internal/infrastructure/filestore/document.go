package filestore

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/andresvp/lubristock-api/internal/domain/entity"
)

// document es el esquema completo del almacén de archivo: un solo JSON con
// una clave por colección. Es el mismo esquema de entidades que usa el modo
// remoto; las capas superiores no distinguen el modo de respaldo.
type document struct {
	Products           []*entity.Product           `json:"products"`
	Employees          []*entity.Employee          `json:"employees"`
	Orders             []*entity.Order             `json:"orders"`
	Sales              []*entity.Sale              `json:"sales"`
	InventoryMovements []*entity.InventoryMovement `json:"inventory_movements"`
}

func emptyDocument() *document {
	return &document{
		Products:           []*entity.Product{},
		Employees:          []*entity.Employee{},
		Orders:             []*entity.Order{},
		Sales:              []*entity.Sale{},
		InventoryMovements: []*entity.InventoryMovement{},
	}
}

// Credenciales del dataset semilla para modo demo/escritorio.
const (
	SeedAdminCode     = "ADMIN001"
	SeedAdminPassword = "admin123"
	SeedSellerCode    = "VEND001"
	SeedSellerPhrase  = "vende123"
)

// defaultDocument construye el documento inicial a partir del dataset semilla.
func defaultDocument() (*document, error) {
	employees, products, err := SeedDataset()
	if err != nil {
		return nil, err
	}
	doc := emptyDocument()
	doc.Employees = employees
	doc.Products = products
	return doc, nil
}

// SeedDataset construye el dataset semilla: cuentas admin y vendedor por
// defecto y el catálogo inicial de lubricantes. Los hashes bcrypt se generan
// en el momento, no hay hashes precalculados en el código. Lo comparten el
// auto-sembrado del modo archivo y el seeder del modo remoto.
func SeedDataset() ([]*entity.Employee, []*entity.Product, error) {
	now := time.Now()

	adminHash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	sellerHash, err := bcrypt.GenerateFromPassword([]byte(SeedSellerPhrase), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	employees := []*entity.Employee{
		{
			ID:             uuid.New().String(),
			Code:           SeedAdminCode,
			Name:           "Administrador",
			Role:           entity.RoleAdmin,
			Routes:         []string{},
			CommissionRate: decimal.Zero,
			PasswordHash:   string(adminHash),
			Status:         entity.StatusActive,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:             uuid.New().String(),
			Code:           SeedSellerCode,
			Name:           "Vendedor de ruta",
			Role:           entity.RoleEmployee,
			Routes:         []string{"Centro", "Zona Industrial"},
			CommissionRate: decimal.NewFromFloat(0.05),
			PasswordHash:   string(sellerHash),
			Status:         entity.StatusActive,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}
	return employees, seedProducts(now), nil
}

func seedProducts(now time.Time) []*entity.Product {
	mk := func(code, name, brand, visc, cap string, cost, cu, cb, ru, rb float64) *entity.Product {
		return &entity.Product{
			ID:        uuid.New().String(),
			Code:      code,
			Name:      name,
			Brand:     brand,
			Viscosity: visc,
			Capacity:  cap,
			Stock:     0,
			Cost:      decimal.NewFromFloat(cost),
			Prices: entity.Prices{
				CashUnit:   decimal.NewFromFloat(cu),
				CashBox:    decimal.NewFromFloat(cb),
				CreditUnit: decimal.NewFromFloat(ru),
				CreditBox:  decimal.NewFromFloat(rb),
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	return []*entity.Product{
		mk("LUB-2050-1L", "Aceite mineral 20W-50", "Castrol", "20W-50", "1L", 4.20, 6.50, 72.00, 7.00, 78.00),
		mk("LUB-1540-1L", "Aceite semisintético 15W-40", "Shell", "15W-40", "1L", 5.10, 7.80, 88.00, 8.40, 94.00),
		mk("LUB-0520-4L", "Aceite sintético 5W-20", "Mobil", "5W-20", "4L", 18.50, 26.00, 148.00, 28.00, 158.00),
		mk("REF-COOL-1G", "Refrigerante concentrado", "Prestone", "", "1gal", 6.30, 9.50, 105.00, 10.20, 112.00),
	}
}
