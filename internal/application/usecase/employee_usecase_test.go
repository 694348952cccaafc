package usecase

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/andresvp/lubristock-api/internal/application/dto"
	"github.com/andresvp/lubristock-api/internal/domain"
	"github.com/andresvp/lubristock-api/internal/domain/entity"
)

// fakeEmployeeRepo repositorio en memoria para tests unitarios.
type fakeEmployeeRepo struct {
	items []*entity.Employee
}

func (f *fakeEmployeeRepo) Create(e *entity.Employee) error {
	cp := *e
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeEmployeeRepo) GetByID(id string) (*entity.Employee, error) {
	for _, e := range f.items {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeEmployeeRepo) GetByCode(code string) (*entity.Employee, error) {
	for _, e := range f.items {
		if e.Code == code {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeEmployeeRepo) Update(e *entity.Employee) error {
	for i, cur := range f.items {
		if cur.ID == e.ID {
			cp := *e
			f.items[i] = &cp
			return nil
		}
	}
	return nil
}

func (f *fakeEmployeeRepo) List(limit, offset int) ([]*entity.Employee, error) {
	if offset >= len(f.items) {
		return nil, nil
	}
	out := f.items[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func createTestEmployee(t *testing.T, uc *EmployeeUseCase) *dto.EmployeeResponse {
	t.Helper()
	out, err := uc.Create(dto.CreateEmployeeRequest{
		Code:           "VEND042",
		Name:           "Vendedor Cuarenta y Dos",
		Password:       "superclave42",
		Role:           entity.RoleEmployee,
		Routes:         []string{"Norte"},
		CommissionRate: decimal.NewFromFloat(0.07),
	})
	require.NoError(t, err)
	return out
}

// La contraseña se almacena como hash bcrypt y nunca sale en la respuesta.
func TestEmployeeCreate_HashYSaneamiento(t *testing.T) {
	repo := &fakeEmployeeRepo{}
	uc := NewEmployeeUseCase(repo)
	out := createTestEmployee(t, uc)

	stored, err := repo.GetByCode("VEND042")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "superclave42", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("superclave42")))

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password_hash")
	assert.NotContains(t, string(raw), stored.PasswordHash)
}

// Código duplicado y rol desconocido se rechazan.
func TestEmployeeCreate_Validaciones(t *testing.T) {
	repo := &fakeEmployeeRepo{}
	uc := NewEmployeeUseCase(repo)
	createTestEmployee(t, uc)

	_, err := uc.Create(dto.CreateEmployeeRequest{
		Code: "VEND042", Name: "Doble", Password: "otraclave99", Role: entity.RoleEmployee,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(dto.CreateEmployeeRequest{
		Code: "SUP001", Name: "Supervisor", Password: "claveclave", Role: "supervisor",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(dto.CreateEmployeeRequest{
		Code: "VEND043", Name: "Negativo", Password: "claveclave", Role: entity.RoleEmployee,
		CommissionRate: decimal.NewFromFloat(-0.01),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Disable es un borrado lógico: la cuenta queda inactive pero sigue listándose.
func TestEmployeeDisable_BorradoLogico(t *testing.T) {
	repo := &fakeEmployeeRepo{}
	uc := NewEmployeeUseCase(repo)
	out := createTestEmployee(t, uc)

	require.NoError(t, uc.Disable(out.ID))

	got, err := uc.GetByID(out.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "el empleado desactivado sigue existiendo")
	assert.Equal(t, entity.StatusInactive, got.Status)

	assert.ErrorIs(t, uc.Disable("no-existe"), domain.ErrEmployeeNotFound)
}

// Update con Password restablece la contraseña.
func TestEmployeeUpdate_RestableceContrasena(t *testing.T) {
	repo := &fakeEmployeeRepo{}
	uc := NewEmployeeUseCase(repo)
	out := createTestEmployee(t, uc)

	nueva := "clavenueva99"
	_, err := uc.Update(out.ID, dto.UpdateEmployeeRequest{Password: &nueva})
	require.NoError(t, err)

	stored, err := repo.GetByID(out.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(nueva)))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("superclave42")))
}
