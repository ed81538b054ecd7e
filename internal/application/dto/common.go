package dto

// ErrorResponse cuerpo de toda respuesta de error de la API.
// Code es estable (NOT_FOUND, VALIDATION, INSUFFICIENT_STOCK, ...); Message es para humanos.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
