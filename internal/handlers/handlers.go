package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DataMessage is the fixed payload of GET /api/data.
const DataMessage = "Hello from the API!"

type DataResponse struct {
	Message string `json:"message" example:"Hello from the API!"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// GetData godoc
// @Summary      Sample data
// @Description  Returns a fixed greeting.
// @Tags         api
// @Produce      json
// @Success      200  {object}  handlers.DataResponse
// @Router       /api/data [get]
func GetData(c *gin.Context) {
	c.JSON(http.StatusOK, DataResponse{Message: DataMessage})
}

// Health godoc
// @Summary      Liveness probe
// @Tags         ops
// @Produce      json
// @Success      200  {object}  handlers.HealthResponse
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
