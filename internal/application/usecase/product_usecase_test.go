package usecase

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresvp/lubristock-api/internal/application/dto"
	"github.com/andresvp/lubristock-api/internal/domain"
	"github.com/andresvp/lubristock-api/internal/domain/entity"
)

// fakeProductRepo repositorio en memoria para tests unitarios.
type fakeProductRepo struct {
	items []*entity.Product
}

func (f *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	for _, p := range f.items {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) GetByCode(code string) (*entity.Product, error) {
	for _, p := range f.items {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) Update(p *entity.Product) error {
	for i, cur := range f.items {
		if cur.ID == p.ID {
			cp := *p
			cp.Stock = cur.Stock
			f.items[i] = &cp
			return nil
		}
	}
	return nil
}

func (f *fakeProductRepo) UpdateStock(productID string, stock int64) error {
	for _, p := range f.items {
		if p.ID == productID {
			p.Stock = stock
		}
	}
	return nil
}

func (f *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	if offset >= len(f.items) {
		return nil, nil
	}
	out := f.items[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeProductRepo) Delete(id string) error {
	for i, p := range f.items {
		if p.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func seedProductUC(t *testing.T) (*ProductUseCase, *fakeProductRepo) {
	t.Helper()
	repo := &fakeProductRepo{}
	uc := NewProductUseCase(repo)
	for _, in := range []dto.CreateProductRequest{
		{Code: "LUB-2050-1L", Name: "Aceite Lubricación Pesada 20W-50", Brand: "Castrol", Viscosity: "20W-50"},
		{Code: "LUB-0520-4L", Name: "Aceite sintético", Brand: "Mobil", Viscosity: "5W-20"},
		{Code: "REF-COOL-1G", Name: "Refrigerante", Brand: "Prestone"},
	} {
		_, err := uc.Create(in)
		require.NoError(t, err)
	}
	return uc, repo
}

// El stock de un producto nuevo siempre inicia en 0.
func TestProductCreate_StockInicialCero(t *testing.T) {
	uc, _ := seedProductUC(t)
	out, err := uc.Create(dto.CreateProductRequest{Code: "NVO-1", Name: "Nuevo"})
	require.NoError(t, err)
	assert.Zero(t, out.Stock)
}

// Código duplicado → ErrDuplicate.
func TestProductCreate_CodigoDuplicado(t *testing.T) {
	uc, _ := seedProductUC(t)
	_, err := uc.Create(dto.CreateProductRequest{Code: "LUB-2050-1L", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// Precios negativos no son válidos.
func TestProductCreate_PrecioNegativo(t *testing.T) {
	uc, _ := seedProductUC(t)
	_, err := uc.Create(dto.CreateProductRequest{
		Code: "NEG-1", Name: "Inválido",
		Prices: dto.PricesDTO{CashUnit: decimal.NewFromInt(-1)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// La búsqueda ignora mayúsculas y acentos.
func TestProductList_BusquedaSinAcentos(t *testing.T) {
	uc, _ := seedProductUC(t)

	out, err := uc.List("lubricacion", 0, 0)
	require.NoError(t, err)
	require.Len(t, out.Items, 1, `"lubricacion" debe encontrar "Lubricación"`)
	assert.Equal(t, "LUB-2050-1L", out.Items[0].Code)

	out, err = uc.List("PRESTONE", 0, 0)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "REF-COOL-1G", out.Items[0].Code)

	out, err = uc.List("5w-20", 0, 0)
	require.NoError(t, err)
	require.Len(t, out.Items, 1, "la viscosidad también es buscable")

	out, err = uc.List("", 0, 0)
	require.NoError(t, err)
	assert.Len(t, out.Items, 3, "sin filtro se listan todos")
}

// El filtro de búsqueda se aplica antes de paginar: una coincidencia más
// allá del tamaño de página igual aparece en la primera página de resultados.
func TestProductList_BusquedaMasAllaDeLaPagina(t *testing.T) {
	repo := &fakeProductRepo{}
	uc := NewProductUseCase(repo)
	for i := 0; i < 25; i++ {
		_, err := uc.Create(dto.CreateProductRequest{
			Code: fmt.Sprintf("FIL-%03d", i),
			Name: fmt.Sprintf("Filtro de aire %d", i),
		})
		require.NoError(t, err)
	}
	_, err := uc.Create(dto.CreateProductRequest{
		Code: "GRS-LUB-1K",
		Name: "Grasa de Lubricación especial",
	})
	require.NoError(t, err)

	out, err := uc.List("lubricacion", 20, 0)
	require.NoError(t, err)
	require.Len(t, out.Items, 1, "la coincidencia en la posición 26 debe aparecer con límite 20")
	assert.Equal(t, "GRS-LUB-1K", out.Items[0].Code)

	// La paginación opera sobre el conjunto ya filtrado.
	out, err = uc.List("filtro", 10, 10)
	require.NoError(t, err)
	assert.Len(t, out.Items, 10)
	out, err = uc.List("filtro", 10, 20)
	require.NoError(t, err)
	assert.Len(t, out.Items, 5)
}

// Update nunca toca el stock aunque la entidad en memoria lo traiga alterado.
func TestProductUpdate_NoTocaStock(t *testing.T) {
	uc, repo := seedProductUC(t)
	products, err := repo.List(0, 0)
	require.NoError(t, err)
	id := products[0].ID
	require.NoError(t, repo.UpdateStock(id, 42))

	name := "Renombrado"
	out, err := uc.Update(id, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renombrado", out.Name)

	stored, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, int64(42), stored.Stock, "actualizar metadatos no altera el caché de stock")
}

// Update de un ID inexistente devuelve nil sin error (el handler lo mapea a 404).
func TestProductUpdate_Inexistente(t *testing.T) {
	uc, _ := seedProductUC(t)
	name := "X"
	out, err := uc.Update("no-existe", dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, out)
}
