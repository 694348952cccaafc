package usecase

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/andresvp/lubristock-api/internal/application/dto"
	"github.com/andresvp/lubristock-api/internal/domain"
	"github.com/andresvp/lubristock-api/internal/domain/entity"
	"github.com/andresvp/lubristock-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Stock solo se mueve vía
// movimientos de inventario; aquí nunca se toca.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto con stock 0. Devuelve ErrDuplicate si el código ya existe.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, err := uc.repo.GetByCode(in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.Cost.IsNegative() || anyNegativePrice(in.Prices) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Brand:     in.Brand,
		Viscosity: in.Viscosity,
		Capacity:  in.Capacity,
		Stock:     0,
		Cost:      in.Cost,
		Prices:    toPrices(in.Prices),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return ToProductResponse(product), nil
}

// List lista productos con paginación y filtro opcional de búsqueda.
// La búsqueda ignora mayúsculas y acentos ("lubricacion" encuentra "Lubricación").
func (uc *ProductUseCase) List(search string, limit, offset int) (*dto.ProductListResponse, error) {
	needle := normalizeSearch(search)
	page := dto.PageResponse{Limit: limit, Offset: offset}

	if needle == "" {
		list, err := uc.repo.List(limit, offset)
		if err != nil {
			return nil, err
		}
		items := make([]dto.ProductResponse, 0, len(list))
		for _, p := range list {
			items = append(items, *ToProductResponse(p))
		}
		return &dto.ProductListResponse{Items: items, Page: page}, nil
	}

	// Con búsqueda el filtro va antes de la paginación: se recorre el
	// catálogo completo para no perder coincidencias fuera de la primera
	// página. El catálogo de un negocio pequeño cabe en memoria.
	list, err := uc.repo.List(0, 0)
	if err != nil {
		return nil, err
	}
	matched := make([]*entity.Product, 0, len(list))
	for _, p := range list {
		if matchesProduct(p, needle) {
			matched = append(matched, p)
		}
	}
	if offset > 0 {
		if offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[offset:]
		}
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	items := make([]dto.ProductResponse, 0, len(matched))
	for _, p := range matched {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Page: page}, nil
}

// Update actualiza un producto. No permite modificar Stock (se maneja vía movimientos).
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Brand != nil {
		product.Brand = *in.Brand
	}
	if in.Viscosity != nil {
		product.Viscosity = *in.Viscosity
	}
	if in.Capacity != nil {
		product.Capacity = *in.Capacity
	}
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Cost = *in.Cost
	}
	if in.Prices != nil {
		if anyNegativePrice(*in.Prices) {
			return nil, domain.ErrInvalidInput
		}
		product.Prices = toPrices(*in.Prices)
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

// normalizeSearch pasa a minúsculas y descompone + elimina marcas diacríticas (NFD).
func normalizeSearch(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

func matchesProduct(p *entity.Product, needle string) bool {
	for _, field := range []string{p.Code, p.Name, p.Brand, p.Viscosity} {
		if strings.Contains(normalizeSearch(field), needle) {
			return true
		}
	}
	return false
}

func anyNegativePrice(p dto.PricesDTO) bool {
	return p.CashUnit.IsNegative() || p.CashBox.IsNegative() ||
		p.CreditUnit.IsNegative() || p.CreditBox.IsNegative()
}

func toPrices(p dto.PricesDTO) entity.Prices {
	return entity.Prices{
		CashUnit:   p.CashUnit,
		CashBox:    p.CashBox,
		CreditUnit: p.CreditUnit,
		CreditBox:  p.CreditBox,
	}
}

// ToProductResponse mapea la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Brand:     p.Brand,
		Viscosity: p.Viscosity,
		Capacity:  p.Capacity,
		Stock:     p.Stock,
		Cost:      p.Cost,
		Prices: dto.PricesDTO{
			CashUnit:   p.Prices.CashUnit,
			CashBox:    p.Prices.CashBox,
			CreditUnit: p.Prices.CreditUnit,
			CreditBox:  p.Prices.CreditBox,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
