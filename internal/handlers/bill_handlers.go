package handlers

import (
	"errors"
	"net/http"

	"restro_erp_backend/internal/services"
	"restro_erp_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BillHandler exposes the derived bill endpoint.
type BillHandler struct {
	billService services.BillService
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(bs services.BillService) *BillHandler {
	return &BillHandler{billService: bs}
}

// GetBillForTable derives and returns the settlement bill for the completed
// order on a table.
func (h *BillHandler) GetBillForTable(c *gin.Context) {
	tableLabel := c.Param("label")

	bill, err := h.billService.GetBillForTable(tableLabel)
	if err != nil {
		utils.LogError(err, "GetBillForTable: Error from billService.GetBillForTable")
		switch {
		case errors.Is(err, services.ErrUnitNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
		case errors.Is(err, services.ErrNoActiveOrderForUnit):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "No active order for this table", err.Error()))
		case errors.Is(err, services.ErrBillNotReady):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Order not completed yet", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to derive bill.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, bill)
}
