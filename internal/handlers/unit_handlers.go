package handlers

import (
	"errors"
	"net/http"

	"restro_erp_backend/internal/models"
	"restro_erp_backend/internal/services"
	"restro_erp_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UnitHandler exposes table and room management endpoints.
type UnitHandler struct {
	unitService  services.UnitService
	orderService services.OrderService
}

// NewUnitHandler creates a new UnitHandler.
func NewUnitHandler(us services.UnitService, os services.OrderService) *UnitHandler {
	return &UnitHandler{unitService: us, orderService: os}
}

// kindFromQuery resolves the unit kind for mixed endpoints. Tables are the
// default because they dominate day-to-day traffic.
func kindFromQuery(c *gin.Context) (models.UnitKind, bool) {
	switch c.DefaultQuery("kind", string(models.UnitKindTable)) {
	case string(models.UnitKindTable):
		return models.UnitKindTable, true
	case string(models.UnitKindRoom):
		return models.UnitKindRoom, true
	default:
		return "", false
	}
}

// notBookedMessage keeps the human-facing wording kind-specific.
func notBookedMessage(kind models.UnitKind) string {
	if kind == models.UnitKindRoom {
		return "Room is not booked"
	}
	return "Table is not booked"
}

// CreateTable registers a new dining table.
func (h *UnitHandler) CreateTable(c *gin.Context) {
	var req services.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	unit, err := h.unitService.CreateTable(req)
	if err != nil {
		utils.LogError(err, "CreateTable: Error from unitService.CreateTable")
		if errors.Is(err, services.ErrUnitExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Table already exists.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create table.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, unit)
}

// CreateRoom registers a new hotel room.
func (h *UnitHandler) CreateRoom(c *gin.Context) {
	var req services.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	unit, err := h.unitService.CreateRoom(req)
	if err != nil {
		utils.LogError(err, "CreateRoom: Error from unitService.CreateRoom")
		switch {
		case errors.Is(err, services.ErrUnitExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Room already exists.", err.Error()))
		case errors.Is(err, services.ErrUnitValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid room payload.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create room.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, unit)
}

// GetTables lists all tables with their occupancy state.
func (h *UnitHandler) GetTables(c *gin.Context) {
	h.listUnits(c, models.UnitKindTable)
}

// GetRooms lists all rooms with their occupancy state.
func (h *UnitHandler) GetRooms(c *gin.Context) {
	h.listUnits(c, models.UnitKindRoom)
}

func (h *UnitHandler) listUnits(c *gin.Context, kind models.UnitKind) {
	units, err := h.unitService.GetUnits(kind)
	if err != nil {
		utils.LogError(err, "listUnits: Error from unitService.GetUnits")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch units.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, units)
}

// GetTableByLabel returns one table.
func (h *UnitHandler) GetTableByLabel(c *gin.Context) {
	h.getUnitByLabel(c, models.UnitKindTable)
}

// GetRoomByLabel returns one room.
func (h *UnitHandler) GetRoomByLabel(c *gin.Context) {
	h.getUnitByLabel(c, models.UnitKindRoom)
}

func (h *UnitHandler) getUnitByLabel(c *gin.Context, kind models.UnitKind) {
	unit, err := h.unitService.GetUnitByLabel(kind, c.Param("label"))
	if err != nil {
		if errors.Is(err, services.ErrUnitNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Unit not found.", err.Error()))
		} else {
			utils.LogError(err, "getUnitByLabel: Error from unitService.GetUnitByLabel")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch unit.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, unit)
}

// GetOccupancyCounts reports total/occupied/free counts for one unit kind.
func (h *UnitHandler) GetOccupancyCounts(c *gin.Context) {
	kind, ok := kindFromQuery(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid unit kind.", "kind must be 'table' or 'room'"))
		return
	}

	counts, err := h.unitService.CountByOccupancy(kind)
	if err != nil {
		utils.LogError(err, "GetOccupancyCounts: Error from unitService.CountByOccupancy")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to count occupancy.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, counts)
}

// DeleteUnit removes a table or room by id. Occupied units are refused.
func (h *UnitHandler) DeleteUnit(c *gin.Context) {
	unitID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid unit ID format.", err.Error()))
		return
	}

	if err := h.unitService.DeleteUnit(unitID); err != nil {
		utils.LogError(err, "DeleteUnit: Error from unitService.DeleteUnit")
		switch {
		case errors.Is(err, services.ErrUnitNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Unit not found.", err.Error()))
		case errors.Is(err, services.ErrUnitOccupied):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Cannot delete a booked unit.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete unit.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unit deleted successfully"})
}

// ReleaseUnit frees a table or room after its bound order has been completed.
func (h *UnitHandler) ReleaseUnit(c *gin.Context) {
	kind, ok := kindFromQuery(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid unit kind.", "kind must be 'table' or 'room'"))
		return
	}
	label := c.Param("label")

	if err := h.orderService.ReleaseUnit(kind, label); err != nil {
		utils.LogError(err, "ReleaseUnit: Error from orderService.ReleaseUnit")
		switch {
		case errors.Is(err, services.ErrUnitNotOccupied):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, notBookedMessage(kind), err.Error()))
		case errors.Is(err, services.ErrOrderNotCompleted):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Order not completed yet", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to release unit.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unit released successfully"})
}

// CheckInRoom seats a guest into a free room.
func (h *UnitHandler) CheckInRoom(c *gin.Context) {
	var req services.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	label := c.Param("label")

	unit, err := h.unitService.CheckInRoom(label, req)
	if err != nil {
		utils.LogError(err, "CheckInRoom: Error from unitService.CheckInRoom")
		switch {
		case errors.Is(err, services.ErrUnitNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Room not found.", err.Error()))
		case errors.Is(err, services.ErrRoomAlreadyBooked):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Room is already booked.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to check in room.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, unit)
}

// CheckOutRoom releases the room through the order completion gate and
// stamps the check-out date.
func (h *UnitHandler) CheckOutRoom(c *gin.Context) {
	label := c.Param("label")

	if err := h.unitService.CheckOutRoom(label); err != nil {
		utils.LogError(err, "CheckOutRoom: Error from unitService.CheckOutRoom")
		switch {
		case errors.Is(err, services.ErrUnitNotOccupied):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Room is not booked", err.Error()))
		case errors.Is(err, services.ErrOrderNotCompleted):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Order not completed yet", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to check out room.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room checked out successfully"})
}
