package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bitbucket.org/mmdatafocus/busops_backend/config"
	"bitbucket.org/mmdatafocus/busops_backend/middlewares"
	"bitbucket.org/mmdatafocus/busops_backend/store"
)

const defaultPort = "8080"

func main() {
	logger := config.GetLogger()

	config.ConnectDatabaseWithRetry()
	config.ConnectRedis()

	rs := store.NewMySQLStore(config.GetDB())
	if err := rs.Migrate(); err != nil {
		config.LogError(logger, "server.go", "main", "migrate", nil, err)
		os.Exit(1)
	}

	cols, err := config.Collections()
	if err != nil {
		config.LogError(logger, "server.go", "main", "collections", nil, err)
		os.Exit(1)
	}

	e := newEngine(rs, cols)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middlewares.AuthMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/api/login", e.loginHandler)

	api := router.Group("/api")
	{
		api.GET("/analytics", e.analyticsHandler)
		api.GET("/bus-revenue", e.busRevenueHandler)
		api.GET("/fares", e.listFaresHandler)
		api.GET("/remittances/history", e.remittanceHistoryHandler)
		api.GET("/reports/:kind", e.reportHandler)
		api.GET("/reports/:kind/export", e.reportExportHandler)

		admin := api.Group("/buses")
		admin.Use(middlewares.RequireAdmin())
		admin.POST("/:busId/remittance", e.setRemittanceHandler)
		admin.POST("/:busId/remittance/reset", e.resetRemittanceHandler)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			config.LogError(logger, "server.go", "main", "listen", port, err)
			os.Exit(1)
		}
	}()
	logger.WithField("port", port).Info("busops backend listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		config.LogError(logger, "server.go", "main", "shutdown", nil, err)
	}
}
