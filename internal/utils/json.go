package utils

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/gooberdetector/facedetect/internal/models"
)

// JSONError writes the {"error": message} envelope with the given status
func JSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{Error: message})
}

// LogError logs an error if it's not nil
func LogError(err error, context string) {
	if err != nil {
		log.Printf("Error [%s]: %v", context, err)
	}
}
