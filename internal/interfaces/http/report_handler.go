package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// ReportHandler expone los saldos derivados del libro.
type ReportHandler struct {
	uc *inventory.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *inventory.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// GetReport godoc
// @Summary      Reporte de existencias
// @Description  producto -> ubicación -> saldo para todos los pares; los saldos pueden ser negativos.
// @Tags         report
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockReportResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/report [get]
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	report, err := h.uc.GenerateReport(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToStockReportResponse(report))
}

// GetReportPDF godoc
// @Summary      Reporte de existencias en PDF
// @Tags         report
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/report/pdf [get]
func (h *ReportHandler) GetReportPDF(c *fiber.Ctx) error {
	doc, err := h.uc.GenerateReportPDF(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="reporte-existencias.pdf"`)
	return c.Send(doc)
}

// GetBalance godoc
// @Summary      Saldo de un producto en una ubicación
// @Tags         report
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  int  true  "ID del producto"
// @Param        location_id  query  int  true  "ID de la ubicación"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/balances [get]
func (h *ReportHandler) GetBalance(c *fiber.Ctx) error {
	productID := int64(c.QueryInt("product_id", 0))
	locationID := int64(c.QueryInt("location_id", 0))
	if productID <= 0 || locationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "product_id y location_id son requeridos",
		})
	}
	balance, err := h.uc.GetBalance(c.UserContext(), productID, locationID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BalanceResponse{ProductID: productID, LocationID: locationID, Balance: balance})
}
