package usecase

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/andresvp/lubristock-api/internal/application/auth"
	"github.com/andresvp/lubristock-api/internal/application/dto"
	"github.com/andresvp/lubristock-api/internal/domain"
	"github.com/andresvp/lubristock-api/internal/domain/entity"
	"github.com/andresvp/lubristock-api/internal/domain/repository"
)

// EmployeeUseCase administración de empleados (solo admin). Los empleados
// nunca se borran en duro: Disable los marca inactive.
type EmployeeUseCase struct {
	repo repository.EmployeeRepository
}

// NewEmployeeUseCase construye el caso de uso.
func NewEmployeeUseCase(repo repository.EmployeeRepository) *EmployeeUseCase {
	return &EmployeeUseCase{repo: repo}
}

// Create crea un empleado. Devuelve ErrDuplicate si el employee_code ya existe.
func (uc *EmployeeUseCase) Create(in dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	existing, err := uc.repo.GetByCode(in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.Role != entity.RoleAdmin && in.Role != entity.RoleEmployee {
		return nil, domain.ErrInvalidInput
	}
	if in.CommissionRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	routes := in.Routes
	if routes == nil {
		routes = []string{}
	}
	employee := &entity.Employee{
		ID:             uuid.New().String(),
		Code:           in.Code,
		Name:           in.Name,
		Role:           in.Role,
		Routes:         routes,
		CommissionRate: in.CommissionRate,
		PasswordHash:   string(hash),
		Status:         entity.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(employee); err != nil {
		return nil, err
	}
	return auth.ToEmployeeResponse(employee), nil
}

// GetByID obtiene un empleado por ID.
func (uc *EmployeeUseCase) GetByID(id string) (*dto.EmployeeResponse, error) {
	employee, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, nil
	}
	return auth.ToEmployeeResponse(employee), nil
}

// List lista empleados con paginación.
func (uc *EmployeeUseCase) List(limit, offset int) (*dto.EmployeeListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EmployeeResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *auth.ToEmployeeResponse(e))
	}
	return &dto.EmployeeListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Update actualiza campos de un empleado; Password no-nil restablece la contraseña.
func (uc *EmployeeUseCase) Update(id string, in dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	employee, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, nil
	}
	if in.Name != nil {
		employee.Name = *in.Name
	}
	if in.Role != nil {
		if *in.Role != entity.RoleAdmin && *in.Role != entity.RoleEmployee {
			return nil, domain.ErrInvalidInput
		}
		employee.Role = *in.Role
	}
	if in.Routes != nil {
		employee.Routes = *in.Routes
	}
	if in.CommissionRate != nil {
		if in.CommissionRate.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		employee.CommissionRate = *in.CommissionRate
	}
	if in.Status != nil {
		if *in.Status != entity.StatusActive && *in.Status != entity.StatusInactive {
			return nil, domain.ErrInvalidInput
		}
		employee.Status = *in.Status
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		employee.PasswordHash = string(hash)
	}
	employee.UpdatedAt = time.Now()
	if err := uc.repo.Update(employee); err != nil {
		return nil, err
	}
	return auth.ToEmployeeResponse(employee), nil
}

// Disable desactiva la cuenta (soft delete). Idempotente.
func (uc *EmployeeUseCase) Disable(id string) error {
	employee, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if employee == nil {
		return domain.ErrEmployeeNotFound
	}
	employee.Status = entity.StatusInactive
	employee.UpdatedAt = time.Now()
	return uc.repo.Update(employee)
}
