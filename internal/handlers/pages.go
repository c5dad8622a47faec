package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// IndexHandler renders the capture/detect landing page
func IndexHandler(c *fiber.Ctx) error {
	return c.Render("index", fiber.Map{
		"Title": "Face Detector",
	})
}

// GalleryHandler renders the saved photo gallery. Photos are loaded client side from /api/photos.
func GalleryHandler(c *fiber.Ctx) error {
	return c.Render("gallery", fiber.Map{
		"Title": "Saved Photos",
	})
}
