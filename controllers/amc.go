// controllers/amc.go
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

// CreateAMC creates a new maintenance contract
func CreateAMC(c *gin.Context) {
	var input services.CreateAMCInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	amc, err := services.NewAMCService(config.DB).Create(input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": amc})
}

// GetAMCs retrieves contracts with optional status/customer filters
func GetAMCs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	status := models.AMCStatus(c.Query("status"))

	var customerID *uuid.UUID
	if raw := c.Query("customerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
			return
		}
		customerID = &id
	}

	amcs, pagination, err := services.NewAMCService(config.DB).List(page, limit, status, customerID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve contracts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": amcs, "pagination": pagination})
}

// GetAMC retrieves a specific contract
func GetAMC(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid AMC ID format")
		return
	}

	amc, err := services.NewAMCService(config.DB).GetByID(id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": amc})
}

// UpdateAMC updates an existing contract
func UpdateAMC(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid AMC ID format")
		return
	}

	var input services.UpdateAMCInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	amc, err := services.NewAMCService(config.DB).Update(id, input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": amc})
}

// DeleteAMC removes a contract
func DeleteAMC(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid AMC ID format")
		return
	}

	if err := services.NewAMCService(config.DB).Delete(id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "AMC deleted successfully"})
}

// GetExpiringAMCs lists active contracts ending within ?days (default 30)
func GetExpiringAMCs(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	amcs, err := services.NewAMCService(config.DB).ExpiringSoon(days)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve expiring contracts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": amcs})
}

// GetAMCStats returns contract counts and active contract value
func GetAMCStats(c *gin.Context) {
	stats, err := services.NewAMCService(config.DB).Stats()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute contract stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
