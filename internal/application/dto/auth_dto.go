package dto

// LoginRequest entrada para login: código de empleado + password.
type LoginRequest struct {
	Code     string `json:"employee_code" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con el token de sesión y el perfil saneado.
type LoginResponse struct {
	Token string           `json:"token"`
	User  EmployeeResponse `json:"user"`
}

// ChangePasswordRequest cambio de contraseña del propio empleado.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}
