package auth_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/andresvp/lubristock-api/internal/application/auth"
	"github.com/andresvp/lubristock-api/internal/application/dto"
	"github.com/andresvp/lubristock-api/internal/domain"
	"github.com/andresvp/lubristock-api/internal/domain/entity"
	pkgjwt "github.com/andresvp/lubristock-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

// fakeEmployeeRepo repositorio en memoria para los tests del use case.
type fakeEmployeeRepo struct {
	byCode map[string]*entity.Employee
	byID   map[string]*entity.Employee
}

func newFakeEmployeeRepo(employees ...*entity.Employee) *fakeEmployeeRepo {
	r := &fakeEmployeeRepo{byCode: map[string]*entity.Employee{}, byID: map[string]*entity.Employee{}}
	for _, e := range employees {
		r.byCode[e.Code] = e
		r.byID[e.ID] = e
	}
	return r
}

func (r *fakeEmployeeRepo) Create(e *entity.Employee) error {
	r.byCode[e.Code] = e
	r.byID[e.ID] = e
	return nil
}
func (r *fakeEmployeeRepo) GetByID(id string) (*entity.Employee, error)     { return r.byID[id], nil }
func (r *fakeEmployeeRepo) GetByCode(code string) (*entity.Employee, error) { return r.byCode[code], nil }
func (r *fakeEmployeeRepo) Update(e *entity.Employee) error {
	r.byCode[e.Code] = e
	r.byID[e.ID] = e
	return nil
}
func (r *fakeEmployeeRepo) List(limit, offset int) ([]*entity.Employee, error) { return nil, nil }

func seedEmployee(t *testing.T, code, password, role, status string) *entity.Employee {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &entity.Employee{
		ID:           "emp-" + code,
		Code:         code,
		Name:         "Empleado " + code,
		Role:         role,
		PasswordHash: string(hash),
		Status:       status,
	}
}

func newUC(repo *fakeEmployeeRepo) *auth.AuthUseCase {
	return auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "lubristock-test",
	})
}

// Credenciales válidas: el token emitido verifica y su rol embebido coincide
// con el rol almacenado.
func TestLogin_CredencialesValidas_TokenVerificaConRol(t *testing.T) {
	admin := seedEmployee(t, "ADMIN001", "admin123", entity.RoleAdmin, entity.StatusActive)
	uc := newUC(newFakeEmployeeRepo(admin))

	out, err := uc.Login(dto.LoginRequest{Code: "ADMIN001", Password: "admin123"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	claims, err := pkgjwt.Verify(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.EmployeeID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
	assert.Equal(t, "admin", out.User.Role)
}

// El perfil devuelto nunca incluye el hash de contraseña.
func TestLogin_PerfilSaneado(t *testing.T) {
	emp := seedEmployee(t, "VEND001", "vende123", entity.RoleEmployee, entity.StatusActive)
	uc := newUC(newFakeEmployeeRepo(emp))

	out, err := uc.Login(dto.LoginRequest{Code: "VEND001", Password: "vende123"})
	require.NoError(t, err)
	assert.Equal(t, "VEND001", out.User.Code)
	raw, err := json.Marshal(out.User)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password_hash")
	assert.NotNil(t, out.User.Routes, "routes debe serializarse como arreglo, no null")
}

// Contraseña incorrecta y código inexistente producen el mismo error genérico,
// sin emitir token.
func TestLogin_PasswordIncorrecta_ErrInvalidCredentials(t *testing.T) {
	admin := seedEmployee(t, "ADMIN001", "admin123", entity.RoleAdmin, entity.StatusActive)
	uc := newUC(newFakeEmployeeRepo(admin))

	out, err := uc.Login(dto.LoginRequest{Code: "ADMIN001", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, out)
}

func TestLogin_CodigoInexistente_MismoError(t *testing.T) {
	uc := newUC(newFakeEmployeeRepo())

	out, err := uc.Login(dto.LoginRequest{Code: "NOEXISTE", Password: "loquesea"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials,
		"código inexistente no debe distinguirse de contraseña incorrecta")
	assert.Nil(t, out)
}

// La búsqueda por código es exacta y case-sensitive.
func TestLogin_CodigoCaseSensitive(t *testing.T) {
	admin := seedEmployee(t, "ADMIN001", "admin123", entity.RoleAdmin, entity.StatusActive)
	uc := newUC(newFakeEmployeeRepo(admin))

	_, err := uc.Login(dto.LoginRequest{Code: "admin001", Password: "admin123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

// Cuenta desactivada: credenciales correctas pero acceso denegado.
func TestLogin_CuentaInactiva_ErrForbidden(t *testing.T) {
	emp := seedEmployee(t, "VEND009", "vende123", entity.RoleEmployee, entity.StatusInactive)
	uc := newUC(newFakeEmployeeRepo(emp))

	_, err := uc.Login(dto.LoginRequest{Code: "VEND009", Password: "vende123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestChangePassword_VerificaActualYPersiste(t *testing.T) {
	emp := seedEmployee(t, "VEND001", "vende123", entity.RoleEmployee, entity.StatusActive)
	repo := newFakeEmployeeRepo(emp)
	uc := newUC(repo)

	err := uc.ChangePassword(emp.ID, dto.ChangePasswordRequest{
		CurrentPassword: "vende123",
		NewPassword:     "nueva-clave-larga",
	})
	require.NoError(t, err)

	// La anterior ya no sirve; la nueva sí.
	_, err = uc.Login(dto.LoginRequest{Code: "VEND001", Password: "vende123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = uc.Login(dto.LoginRequest{Code: "VEND001", Password: "nueva-clave-larga"})
	assert.NoError(t, err)
}

func TestChangePassword_ActualIncorrecta(t *testing.T) {
	emp := seedEmployee(t, "VEND001", "vende123", entity.RoleEmployee, entity.StatusActive)
	uc := newUC(newFakeEmployeeRepo(emp))

	err := uc.ChangePassword(emp.ID, dto.ChangePasswordRequest{
		CurrentPassword: "incorrecta",
		NewPassword:     "nueva-clave-larga",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
