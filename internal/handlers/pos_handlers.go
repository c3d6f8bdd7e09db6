package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"restro_erp_backend/internal/services"
	"restro_erp_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PosHandler exposes the POS billing and sales reporting endpoints.
type PosHandler struct {
	posService services.PosService
}

// NewPosHandler creates a new PosHandler.
func NewPosHandler(ps services.PosService) *PosHandler {
	return &PosHandler{posService: ps}
}

// CreateTransaction settles a POS bill and spawns the matching kitchen order.
func (h *PosHandler) CreateTransaction(c *gin.Context) {
	var req services.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateTransaction: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	txn, err := h.posService.CreateTransaction(req)
	if err != nil {
		utils.LogError(err, "CreateTransaction: Error from posService.CreateTransaction")
		switch {
		case errors.Is(err, services.ErrPosValidation), errors.Is(err, services.ErrOrderValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid POS transaction payload.", err.Error()))
		case errors.Is(err, services.ErrUnitNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create transaction.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// GetTransactions lists POS transactions, newest first.
func (h *PosHandler) GetTransactions(c *gin.Context) {
	txns, err := h.posService.GetTransactions()
	if err != nil {
		utils.LogError(err, "GetTransactions: Error from posService.GetTransactions")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch transactions.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, txns)
}

// TransferCredit moves outstanding credit on a transaction to cash or online.
func (h *PosHandler) TransferCredit(c *gin.Context) {
	txnID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid transaction ID format.", err.Error()))
		return
	}

	var req services.TransferCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	txn, err := h.posService.TransferCredit(txnID, req)
	if err != nil {
		utils.LogError(err, "TransferCredit: Error from posService.TransferCredit")
		switch {
		case errors.Is(err, services.ErrTransactionNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Transaction not found.", err.Error()))
		case errors.Is(err, services.ErrInvalidTransferTarget), errors.Is(err, services.ErrPosValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid transfer request.", err.Error()))
		case errors.Is(err, services.ErrInsufficientCredit):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Insufficient credit to transfer.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to transfer credit.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, txn)
}

// AddItemsToTableOrder appends POS cart lines to the active order on a table.
func (h *PosHandler) AddItemsToTableOrder(c *gin.Context) {
	tableLabel := c.Param("label")

	var req services.AddTableItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	order, err := h.posService.AddItemsToTableOrder(tableLabel, req)
	if err != nil {
		utils.LogError(err, "AddItemsToTableOrder: Error from posService.AddItemsToTableOrder")
		switch {
		case errors.Is(err, services.ErrUnitNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
		case errors.Is(err, services.ErrNoActiveTableOrder):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "No active order found for this table.", err.Error()))
		case errors.Is(err, services.ErrPosValidation), errors.Is(err, services.ErrOrderValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid cart payload.", err.Error()))
		case errors.Is(err, services.ErrOrderNotEditable):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Only pending or in-progress orders can be modified.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to add items to table order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetSales reports an aggregated sales summary for a named range.
func (h *PosHandler) GetSales(c *gin.Context) {
	rangeName := c.DefaultQuery("range", "today")

	summary, err := h.posService.SalesByRange(rangeName)
	if err != nil {
		if errors.Is(err, services.ErrPosValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid sales range.", err.Error()))
			return
		}
		utils.LogError(err, "GetSales: Error from posService.SalesByRange")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to compute sales summary.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetTopItems reports the best-selling items by quantity.
func (h *PosHandler) GetTopItems(c *gin.Context) {
	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid limit format.", "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	items, err := h.posService.TopItems(limit)
	if err != nil {
		utils.LogError(err, "GetTopItems: Error from posService.TopItems")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to compute top items.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetPaymentTypeTotals reports today's takings broken down by payment type.
func (h *PosHandler) GetPaymentTypeTotals(c *gin.Context) {
	totals, err := h.posService.TodayPaymentTypeTotals()
	if err != nil {
		utils.LogError(err, "GetPaymentTypeTotals: Error from posService.TodayPaymentTypeTotals")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to compute payment type totals.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, totals)
}
