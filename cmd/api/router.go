package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	ginprometheus "github.com/zsais/go-gin-prometheus"

	"addressbook-backend/internal/infrastructure/storage"
	"addressbook-backend/internal/shared/middleware"
	"addressbook-backend/internal/shared/response"
	"addressbook-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.ClientIPMiddleware(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.CORSOrigins),
	)

	if c.Config.App.MetricsEnabled {
		p := ginprometheus.NewPrometheus("addressbook")
		// label by route template so ids do not explode cardinality
		p.ReqCntURLLabelMappingFn = func(ctx *gin.Context) string {
			if route := ctx.FullPath(); route != "" {
				return route
			}
			return "unmatched"
		}
		p.Use(router)
	}

	setupUploadRoutes(router, c)

	api := router.Group("/api")
	{
		api.GET("/health", healthCheckHandler(c))

		// public
		c.AuthHandler.RegisterRoutes(api)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			c.EntryHandler.RegisterRoutes(protected)
			c.JobHandler.RegisterRoutes(protected)
			c.DepartmentHandler.RegisterRoutes(protected)
		}
	}

	return router
}

// ========================================
// UPLOADED PHOTOS
// ========================================
func setupUploadRoutes(router *gin.Engine, c *container.Container) {
	prefix := c.Config.Storage.PublicPrefix
	if prefix == "" || c.Photos == nil {
		return
	}

	if c.LocalUploadDir != "" {
		router.Static(prefix, c.LocalUploadDir)
		return
	}

	router.GET(prefix+"/:name", photoHandler(c.Photos))
}

// photoHandler streams a photo from object storage.
func photoHandler(photos *storage.PhotoStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, info, err := photos.Open(c.Request.Context(), c.Param("name"))
		if err != nil {
			if errors.Is(err, storage.ErrPhotoNotFound) || errors.Is(err, storage.ErrInvalidPhotoKey) {
				response.NotFound(c, "photo not found")
				return
			}
			log.Error().Err(err).Str("name", c.Param("name")).Msg("[UPLOADS] Failed to open photo")
			response.InternalServerError(c)
			return
		}
		defer body.Close()

		contentType := info.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Header("Content-Type", contentType)
		c.Header("Cache-Control", "public, max-age=86400")
		if info.Size > 0 {
			c.Header("Content-Length", strconv.FormatInt(info.Size, 10))
		}
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, body); err != nil {
			log.Warn().Err(err).Msg("[UPLOADS] Photo stream interrupted")
		}
	}
}

// ========================================
// HEALTH
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "disconnected"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := appCtx.DB.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("[HEALTH] Database ping failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "unreachable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "connected"})
	}
}
