package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/andresvp/lubristock-api/internal/domain"
	"github.com/andresvp/lubristock-api/internal/domain/entity"
	"github.com/andresvp/lubristock-api/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// EmployeeRepo implementación del puerto EmployeeRepository sobre PostgreSQL.
// Routes se guarda como JSONB para preservar el orden de las rutas.
type EmployeeRepo struct {
	q Querier
}

// NewEmployeeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEmployeeRepository(q Querier) *EmployeeRepo {
	return &EmployeeRepo{q: q}
}

const employeeColumns = `id, employee_code, name, role, routes, commission_rate, password_hash, status, created_at, updated_at`

// Create persiste un nuevo empleado. Devuelve ErrDuplicate si el código ya existe.
func (r *EmployeeRepo) Create(employee *entity.Employee) error {
	routes, err := json.Marshal(employee.Routes)
	if err != nil {
		return fmt.Errorf("marshal routes: %w", err)
	}
	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(context.Background(), query,
		employee.ID, employee.Code, employee.Name, employee.Role, routes,
		employee.CommissionRate, employee.PasswordHash, employee.Status,
		employee.CreatedAt, employee.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

// GetByID obtiene un empleado por ID; (nil, nil) si no existe.
func (r *EmployeeRepo) GetByID(id string) (*entity.Employee, error) {
	return r.getOne(`SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
}

// GetByCode busca por employee_code, coincidencia exacta (la columna es
// case-sensitive por defecto).
func (r *EmployeeRepo) GetByCode(code string) (*entity.Employee, error) {
	return r.getOne(`SELECT `+employeeColumns+` FROM employees WHERE employee_code = $1`, code)
}

func (r *EmployeeRepo) getOne(query string, arg any) (*entity.Employee, error) {
	row := r.q.QueryRow(context.Background(), query, arg)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

// Update actualiza un empleado.
func (r *EmployeeRepo) Update(employee *entity.Employee) error {
	routes, err := json.Marshal(employee.Routes)
	if err != nil {
		return fmt.Errorf("marshal routes: %w", err)
	}
	query := `
		UPDATE employees
		SET name = $2, role = $3, routes = $4, commission_rate = $5,
		    password_hash = $6, status = $7, updated_at = $8
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		employee.ID, employee.Name, employee.Role, routes,
		employee.CommissionRate, employee.PasswordHash, employee.Status, employee.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

// List lista empleados ordenados por código; limit <= 0 devuelve todos.
func (r *EmployeeRepo) List(limit, offset int) ([]*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY employee_code`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()
	var list []*entity.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanEmployee(row pgx.Row) (*entity.Employee, error) {
	var e entity.Employee
	var routes []byte
	err := row.Scan(
		&e.ID, &e.Code, &e.Name, &e.Role, &routes, &e.CommissionRate,
		&e.PasswordHash, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(routes) > 0 {
		if err := json.Unmarshal(routes, &e.Routes); err != nil {
			return nil, fmt.Errorf("unmarshal routes: %w", err)
		}
	}
	if e.Routes == nil {
		e.Routes = []string{}
	}
	return &e, nil
}
