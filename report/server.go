// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Server exposes stored conflation runs to the local review frontend.
// It only ever binds to localhost; nothing here is meant to face the
// internet.
type Server struct {
	repo Repository
}

// NewServer creates a review server over a run repository.
func NewServer(repo Repository) *Server {
	return &Server{repo: repo}
}

// Run starts the server on localhost:8080 and blocks.
func (s *Server) Run() error {
	r := gin.Default()

	s.registerRoutes(r)

	return r.Run("localhost:8080")
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/api/runs", s.listRuns)
	r.GET("/api/runs/:run_id/stats", s.getStats)
	r.GET("/api/runs/:run_id/patches", s.listPatches)
	r.GET("/api/runs/:run_id/warnings", s.listWarnings)
	r.GET("/api/runs/:run_id/layers", s.listLayers)
}

func runID(ctx *gin.Context) (int, bool) {
	id, err := strconv.Atoi(ctx.Param("run_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid run_id parameter"})

		return 0, false
	}

	return id, true
}

func (s *Server) listRuns(ctx *gin.Context) {
	runs, err := s.repo.ListRuns()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, runs)
}

func (s *Server) getStats(ctx *gin.Context) {
	id, ok := runID(ctx)
	if !ok {
		return
	}

	stats, err := s.repo.GetStats(id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, stats)
}

func (s *Server) listPatches(ctx *gin.Context) {
	id, ok := runID(ctx)
	if !ok {
		return
	}

	filter := PatchFilter{
		Layer:  ctx.Query("layer"),
		Action: ctx.Query("action"),
	}

	if limit := ctx.Query("limit"); limit != "" {
		value, err := strconv.Atoi(limit)
		if err != nil || value < 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})

			return
		}

		filter.Limit = value
	}

	if offset := ctx.Query("offset"); offset != "" {
		value, err := strconv.Atoi(offset)
		if err != nil || value < 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset parameter"})

			return
		}

		filter.Offset = value
	}

	patches, err := s.repo.ListPatches(id, filter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, patches)
}

func (s *Server) listWarnings(ctx *gin.Context) {
	id, ok := runID(ctx)
	if !ok {
		return
	}

	warnings, err := s.repo.ListWarnings(id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, warnings)
}

func (s *Server) listLayers(ctx *gin.Context) {
	id, ok := runID(ctx)
	if !ok {
		return
	}

	layers, err := s.repo.ListLayers(id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, layers)
}
