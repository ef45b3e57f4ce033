package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists   = errors.New("el email ya está registrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrOutOfStock           = errors.New("stock insuficiente")
	ErrEmptyCart            = errors.New("la venta está vacía")
	ErrReconciliationFailed = errors.New("no se pudo confirmar la venta")
	ErrStoreUnavailable     = errors.New("almacén de datos no disponible")
	ErrConfirmationRequired = errors.New("la operación requiere confirmación")
)
