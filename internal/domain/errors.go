package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrServiceUnavailable = errors.New("servicio externo no disponible")

	// Validaciones específicas de lotes; ambas envuelven ErrInvalidInput.
	ErrLotQuantityExceeded = fmt.Errorf("%w: la cantidad actual no puede ser mayor a la cantidad inicial", ErrInvalidInput)
	ErrItemRequired        = fmt.Errorf("%w: el lote requiere un insumo válido", ErrInvalidInput)
)
