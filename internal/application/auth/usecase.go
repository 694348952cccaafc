package auth

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/andresvp/lubristock-api/internal/application/dto"
	"github.com/andresvp/lubristock-api/internal/domain"
	"github.com/andresvp/lubristock-api/internal/domain/entity"
	"github.com/andresvp/lubristock-api/internal/domain/repository"
	"github.com/andresvp/lubristock-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens de sesión.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login y cambio de contraseña.
// No mantiene estado de sesión en el servidor: los tokens son autocontenidos
// y el logout es descarte del token en el cliente.
type AuthUseCase struct {
	employeeRepo repository.EmployeeRepository
	jwtCfg       JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(employeeRepo repository.EmployeeRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{employeeRepo: employeeRepo, jwtCfg: jwtCfg}
}

// Login verifica employee_code/password, genera el token de sesión y retorna
// token + perfil saneado. Un código inexistente y una contraseña incorrecta
// producen el mismo ErrInvalidCredentials para no permitir enumerar cuentas.
// No muta datos persistidos.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	employee, err := uc.employeeRepo.GetByCode(in.Code)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		// Comparación dummy para igualar el costo frente a códigos válidos.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$N9qo8uLOickgx2ZMRZoMye"), []byte(in.Password))
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !employee.IsActive() {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, employee.ID, employee.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *ToEmployeeResponse(employee),
	}, nil
}

// Profile devuelve el perfil saneado del empleado del token.
func (uc *AuthUseCase) Profile(employeeID string) (*dto.EmployeeResponse, error) {
	employee, err := uc.employeeRepo.GetByID(employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrEmployeeNotFound
	}
	return ToEmployeeResponse(employee), nil
}

// ChangePassword verifica la contraseña actual y persiste el nuevo hash.
func (uc *AuthUseCase) ChangePassword(employeeID string, in dto.ChangePasswordRequest) error {
	employee, err := uc.employeeRepo.GetByID(employeeID)
	if err != nil {
		return err
	}
	if employee == nil {
		return domain.ErrEmployeeNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	employee.PasswordHash = string(hash)
	employee.UpdatedAt = time.Now()
	return uc.employeeRepo.Update(employee)
}

// ToEmployeeResponse sanea un Employee para respuesta (excluye password_hash).
func ToEmployeeResponse(e *entity.Employee) *dto.EmployeeResponse {
	if e == nil {
		return nil
	}
	routes := e.Routes
	if routes == nil {
		routes = []string{}
	}
	return &dto.EmployeeResponse{
		ID:             e.ID,
		Code:           e.Code,
		Name:           e.Name,
		Role:           e.Role,
		Routes:         routes,
		CommissionRate: e.CommissionRate,
		Status:         e.Status,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
