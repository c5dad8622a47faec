package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var DetectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "facedetect_detections_total",
	Help: "Total number of classifier runs",
})
var FacesDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "facedetect_faces_detected_total",
	Help: "Total number of face rectangles reported by the classifier",
})
var DetectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "facedetect_detection_duration_seconds",
	Help:    "Histogram for classifier run time in seconds",
	Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
})
var PhotosSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "facedetect_photos_saved_total",
	Help: "Total number of annotated photos written to storage",
})
var PhotosDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "facedetect_photos_deleted_total",
	Help: "Total number of saved photos deleted",
})
var ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "facedetect_errors_total",
	Help: "Total number of failed operations",
}, []string{"error_type"})

// Error types used as the error_type label
const (
	ClientErrorType  = "ClientError"
	ServerErrorType  = "ServerError"
	StorageErrorType = "StorageError"
)

// ObserveDetection records one classifier run.
func ObserveDetection(started time.Time, faces int) {
	DetectionsTotal.Inc()
	FacesDetectedTotal.Add(float64(faces))
	DetectionDuration.Observe(time.Since(started).Seconds())
}

// Serve exposes /metrics on addr until ctx is cancelled. It runs on its own
// listener so the application routes stay untouched. An empty addr disables it.
func Serve(ctx context.Context, addr string) error {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error [metrics]: %v", err)
		}
	}()

	log.Printf("Metrics listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
