package ingest

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"souq.GO/api"
	"souq.GO/config"
	ingestService "souq.GO/service/ingest"
)

func init() {
	api.RegisterModule(RegisterIngestRoutes)
}

var (
	queueOnce sync.Once
	queue     *ingestService.JobQueue
)

func jobQueue(db *gorm.DB) *ingestService.JobQueue {
	queueOnce.Do(func() {
		queue = ingestService.NewJobQueue(db, config.AppConfig)
	})
	return queue
}

func RegisterIngestRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/ingest")

	// POST /api/ingest/products – synchronous import of a JSON array
	g.POST("/products", func(c echo.Context) error {
		start := time.Now()

		var items []ingestService.RawProduct
		if err := c.Bind(&items); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if len(items) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "request body must be a non-empty JSON array of products"})
		}

		res, err := ingestService.ImportProducts(c.Request().Context(), db, config.AppConfig, items, ingestService.ImportOptions{})
		duration := time.Since(start).Milliseconds()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error(), "request_duration_ms": duration})
		}

		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusOK, echo.Map{
			"total":               res.Total,
			"imported":            res.Imported,
			"skipped":             res.Skipped,
			"failed":              res.Failed,
			"requeued":            res.Requeued,
			"errors":              res.Errors,
			"request_duration_ms": duration,
		})
	})

	// POST /api/ingest/products/async – enqueue and return a job id
	g.POST("/products/async", func(c echo.Context) error {
		var items []ingestService.RawProduct
		if err := c.Bind(&items); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if len(items) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "request body must be a non-empty JSON array of products"})
		}

		id := jobQueue(db).Enqueue(items)
		return c.JSON(http.StatusAccepted, echo.Map{"job_id": id, "status": ingestService.JobQueued})
	})

	// GET /api/ingest/jobs/:id – job status and progress
	g.GET("/jobs/:id", func(c echo.Context) error {
		job, ok := jobQueue(db).Status(c.Param("id"))
		if !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusOK, job)
	})

	// DELETE /api/ingest/jobs/:id – cancel a queued or running job
	g.DELETE("/jobs/:id", func(c echo.Context) error {
		if !jobQueue(db).Cancel(c.Param("id")) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "job not found or already finished"})
		}
		return c.JSON(http.StatusOK, echo.Map{"cancelled": true})
	})
}
