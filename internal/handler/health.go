package handler

import (
	"readum/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router / [get]
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "OK"})
}
