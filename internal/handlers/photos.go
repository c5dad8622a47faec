package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gooberdetector/facedetect/internal/models"
	"github.com/gooberdetector/facedetect/internal/services"
	"github.com/gooberdetector/facedetect/internal/utils"
)

// parseImageRequest decodes the JSON body. A body that is not JSON is
// reported like a missing image.
func parseImageRequest(c *fiber.Ctx) (models.ImageRequest, error) {
	var req models.ImageRequest
	if err := c.BodyParser(&req); err != nil {
		return req, services.ErrNoImage
	}
	return req, nil
}

// DetectFacesHandler runs detection on the posted data URL
func DetectFacesHandler(svc *services.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseImageRequest(c)
		if err != nil {
			return utils.JSONError(c, http.StatusBadRequest, "No image data provided")
		}

		faces, err := svc.DetectFaces(c.UserContext(), req)
		if err != nil {
			if errors.Is(err, services.ErrNoImage) {
				return utils.JSONError(c, http.StatusBadRequest, "No image data provided")
			}
			utils.LogError(err, "detect_faces")
			return utils.JSONError(c, http.StatusInternalServerError, "Failed to detect faces: "+err.Error())
		}

		return c.JSON(models.DetectResponse{
			Faces:     faces,
			FaceCount: len(faces),
		})
	}
}

// SavePhotoHandler annotates and stores the posted image
func SavePhotoHandler(svc *services.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseImageRequest(c)
		if err != nil {
			return utils.JSONError(c, http.StatusBadRequest, "No image data provided")
		}

		photo, err := svc.SavePhoto(c.UserContext(), req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNoImage):
				return utils.JSONError(c, http.StatusBadRequest, "No image data provided")
			case errors.Is(err, services.ErrDecode):
				utils.LogError(err, "save_photo")
				return utils.JSONError(c, http.StatusBadRequest, "Failed to decode image")
			default:
				utils.LogError(err, "save_photo")
				return utils.JSONError(c, http.StatusInternalServerError, "Failed to save photo: "+err.Error())
			}
		}

		return c.JSON(models.SaveResponse{
			Message:   "Photo saved successfully",
			PhotoID:   photo.ID,
			Filename:  photo.Filename,
			FaceCount: photo.FaceCount,
		})
	}
}

// ListPhotosHandler returns every saved photo, newest first
func ListPhotosHandler(svc *services.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		photos, err := svc.ListPhotos(c.UserContext())
		if err != nil {
			utils.LogError(err, "get_photos")
			return utils.JSONError(c, http.StatusInternalServerError, "Failed to load photos: "+err.Error())
		}
		return c.JSON(photos)
	}
}

// ServePhotoHandler streams a saved JPEG from the storage directory
func ServePhotoHandler(svc *services.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path, err := svc.PhotoPath(c.Params("filename"))
		if err != nil {
			return utils.JSONError(c, http.StatusNotFound, "Photo not found")
		}
		return c.SendFile(path)
	}
}

// DeletePhotoHandler deletes a photo file and its row by id
func DeletePhotoHandler(svc *services.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return utils.JSONError(c, http.StatusNotFound, "Photo not found")
		}

		if err := svc.DeletePhoto(c.UserContext(), int64(id)); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return utils.JSONError(c, http.StatusNotFound, "Photo not found")
			}
			utils.LogError(err, "delete_photo")
			return utils.JSONError(c, http.StatusInternalServerError, "Failed to delete photo: "+err.Error())
		}

		return c.JSON(models.MessageResponse{Message: "Photo deleted successfully"})
	}
}

// InitDBHandler creates the schema on demand
func InitDBHandler(svc *services.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.InitDB(c.UserContext()); err != nil {
			utils.LogError(err, "init_db")
			return utils.JSONError(c, http.StatusInternalServerError, "Failed to initialize database: "+err.Error())
		}
		return c.JSON(models.MessageResponse{Message: "Database initialized successfully"})
	}
}
