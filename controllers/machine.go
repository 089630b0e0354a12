// controllers/machine.go
package controllers

import (
	"net/http"
	"strconv"

	"medequip-backend/config"
	"medequip-backend/models"
	"medequip-backend/services"
	"medequip-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UpdateStockInput carries a signed stock adjustment.
type UpdateStockInput struct {
	Quantity int `json:"quantity" binding:"required"`
}

// CreateMachine creates a new machine
func CreateMachine(c *gin.Context) {
	var input services.CreateMachineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	machine, err := services.NewMachineService(config.DB).Create(input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": machine})
}

// GetMachines retrieves machines with optional status filter
func GetMachines(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	status := models.MachineStatus(c.Query("status"))

	machines, pagination, err := services.NewMachineService(config.DB).List(page, limit, status)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve machines")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": machines, "pagination": pagination})
}

// GetMachine retrieves a specific machine with its recent services
func GetMachine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid machine ID format")
		return
	}

	machine, err := services.NewMachineService(config.DB).GetByID(id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": machine})
}

// UpdateMachine updates machine fields; direct status changes to sold are rejected
func UpdateMachine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid machine ID format")
		return
	}

	var input services.UpdateMachineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	machine, err := services.NewMachineService(config.DB).Update(id, input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": machine})
}

// UpdateMachineStock applies a manual stock adjustment
func UpdateMachineStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid machine ID format")
		return
	}

	var input UpdateStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	machine, err := services.NewMachineService(config.DB).UpdateStock(id, input.Quantity)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": machine})
}

// DeleteMachine removes a machine
func DeleteMachine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid machine ID format")
		return
	}

	if err := services.NewMachineService(config.DB).Delete(id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Machine deleted successfully"})
}
