package app

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"

	"github.com/gooberdetector/facedetect/internal/config"
	"github.com/gooberdetector/facedetect/internal/db"
	"github.com/gooberdetector/facedetect/internal/detector"
	"github.com/gooberdetector/facedetect/internal/handlers"
	"github.com/gooberdetector/facedetect/internal/metrics"
	"github.com/gooberdetector/facedetect/internal/services"
	"github.com/gooberdetector/facedetect/internal/utils"
)

//go:embed views/*.html
var viewsFS embed.FS

type route struct {
	method  string
	path    string
	handler fiber.Handler
}

// routes is the complete HTTP surface.
func routes(svc *services.PhotoService) []route {
	return []route{
		{fiber.MethodGet, "/", handlers.IndexHandler},
		{fiber.MethodPost, "/api/detect_faces", handlers.DetectFacesHandler(svc)},
		{fiber.MethodPost, "/api/save_photo", handlers.SavePhotoHandler(svc)},
		{fiber.MethodGet, "/gallery", handlers.GalleryHandler},
		{fiber.MethodGet, "/api/photos", handlers.ListPhotosHandler(svc)},
		{fiber.MethodGet, "/photos/:filename", handlers.ServePhotoHandler(svc)},
		{fiber.MethodDelete, "/api/delete_photo/:id<int>", handlers.DeletePhotoHandler(svc)},
		{fiber.MethodGet, "/init_db", handlers.InitDBHandler(svc)},
	}
}

// New builds the Fiber app around an already wired PhotoService.
func New(cfg *config.Config, svc *services.PhotoService) *fiber.App {
	views, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "facedetect",
		BodyLimit:    cfg.MaxContentLength,
		Views:        html.NewFileSystem(http.FS(views), ".html"),
		ErrorHandler: errorHandler,
	})

	// Middleware
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${locals:requestid} | ${status} | ${latency} | ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New())

	// Routes
	for _, r := range routes(svc) {
		app.Add(r.method, r.path, r.handler)
	}

	return app
}

// errorHandler converts framework errors (unknown routes, oversized bodies,
// recovered panics) into the JSON error envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		utils.LogError(err, c.Method()+" "+c.Path())
	}
	return utils.JSONError(c, code, message)
}

// Run wires storage and the HTTP server around faces, then serves until ctx
// is cancelled.
func Run(ctx context.Context, cfg *config.Config, faces detector.Detector) error {
	// Ensure upload dir exists
	if err := os.MkdirAll(cfg.UploadFolder, 0755); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}

	store, err := db.Open(ctx, cfg.DatabaseDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	svc := services.NewPhotoService(faces, store, cfg.UploadFolder)
	app := New(cfg, svc)

	errCh := make(chan error, 2)
	go func() {
		if err := metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()
	go func() {
		log.Printf("Photos stored in %s", cfg.UploadFolder)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Gracefully shutting down...")
	if err := app.Shutdown(); err != nil {
		return err
	}
	log.Println("Server shutdown complete")
	return nil
}

// InitDatabase creates the schema without starting the server.
func InitDatabase(ctx context.Context, cfg *config.Config) error {
	store, err := db.Open(ctx, cfg.DatabaseDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	svc := services.NewPhotoService(nil, store, cfg.UploadFolder)
	return svc.InitDB(ctx)
}
