// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package docblock

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/docblockr/services/docblock/config"
)

// ServiceName identifies the HTTP server in traces.
const ServiceName = "docblockr"

// RegisterRoutes registers all docblock routes with the router.
//
// Description:
//
//	Registers all /v1/docblock/* endpoints with the given Gin router group.
//	The router group should already have any required middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	POST /v1/docblock/generate - Generate one docstring
//	POST /v1/docblock/batch - Generate several docstrings
//	POST /v1/docblock/outline - Propose docstrings for a whole file
//	GET  /v1/docblock/styles - List formatter styles
//	GET  /v1/docblock/health - Health check
//
// Example:
//
//	cfg, _ := docblock.DefaultServiceConfig()
//	service, _ := docblock.NewService(cfg)
//	handlers := docblock.NewHandlers(service)
//
//	v1 := router.Group("/v1")
//	docblock.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	docblock := rg.Group("/docblock")
	{
		docblock.POST("/generate", handlers.HandleGenerate)
		docblock.POST("/batch", handlers.HandleBatch)
		docblock.POST("/outline", handlers.HandleOutline)

		docblock.GET("/styles", handlers.HandleStyles)
		docblock.GET("/health", handlers.HandleHealth)
	}
}

// NewRouter builds the complete HTTP handler: recovery, tracing, rate
// limiting, the /v1 API and GET /metrics.
func NewRouter(handlers *Handlers, server config.ServerSettings) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(ServiceName))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	v1.Use(RateLimit(server.RateLimit, server.Burst))
	RegisterRoutes(v1, handlers)

	return router
}
