package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/application/inventory"
)

// ItemHandler CRUD de insumos.
type ItemHandler struct {
	uc *inventory.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *inventory.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create godoc
// @Summary      Crear insumo
// @Tags         insumos
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del insumo"
// @Success      201   {object}  dto.ItemDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/insumos [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener insumo
// @Tags         insumos
// @Produce      json
// @Param        id   path  string  true  "ID del insumo"
// @Success      200  {object}  dto.ItemDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/insumos/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar insumos
// @Tags         insumos
// @Produce      json
// @Success      200  {array}  dto.ItemDTO
// @Router       /api/insumos [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar insumo
// @Description  Recalcula el nivel de alerta con la cantidad y el mínimo resultantes.
// @Tags         insumos
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del insumo"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ItemDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/insumos/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LotHandler registro y consulta de lotes.
type LotHandler struct {
	uc *inventory.LotUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *inventory.LotUseCase) *LotHandler {
	return &LotHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar lote
// @Description  Si quantity es 0 se toma initial_quantity. quantity no puede superar initial_quantity.
// @Tags         lotes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "Datos del lote"
// @Success      201   {object}  dto.LotDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/lotes [post]
func (h *LotHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	// insumo ausente tiene su propio código de error
	if in.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "ITEM_REQUIRED", Message: "el lote requiere un insumo"})
	}
	if err := validate.Struct(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar lote
// @Tags         lotes
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del lote"
// @Param        body  body  dto.UpdateLotRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.LotDTO
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/lotes/{id} [put]
func (h *LotHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLotRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Retirar lote
// @Description  El lote pasa a estado retirado; no se borra.
// @Tags         lotes
// @Param        id   path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lotes/{id} [delete]
func (h *LotHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Expiring godoc
// @Summary      Lotes próximos a caducar
// @Tags         lotes
// @Produce      json
// @Param        dias  query  int  false  "Horizonte en días"  default(30)
// @Success      200   {array}   dto.LotExpiryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/lotes/caducidad [get]
func (h *LotHandler) Expiring(c *fiber.Ctx) error {
	days, ok, err := queryDays(c, 30)
	if !ok {
		return err
	}
	out, err := h.uc.Expiring(c.UserContext(), days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// FEFO godoc
// @Summary      Lotes disponibles de un insumo en orden FEFO
// @Tags         lotes
// @Produce      json
// @Param        id   path  string  true  "ID del insumo"
// @Success      200  {array}  dto.LotDTO
// @Router       /api/lotes/insumo/{id}/fefo [get]
func (h *LotHandler) FEFO(c *fiber.Ctx) error {
	out, err := h.uc.FEFO(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// WithdrawalHandler registro de salidas de inventario.
type WithdrawalHandler struct {
	uc *inventory.RegisterWithdrawalUseCase
}

// NewWithdrawalHandler construye el handler.
func NewWithdrawalHandler(uc *inventory.RegisterWithdrawalUseCase) *WithdrawalHandler {
	return &WithdrawalHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar salida
// @Description  Descuenta del insumo y de sus lotes en orden FEFO, en una sola transacción.
// @Tags         salidas
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterWithdrawalRequest  true  "Salida"
// @Success      201   {object}  dto.WithdrawalDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/salidas [post]
func (h *WithdrawalHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterWithdrawalRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
