package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
	"github.com/jayveertalekar0/movie-recommendation-system/pkg/utils"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Bool("keyword", query.KeywordEnabled))
	response, err := s.engine.Search(r.Context(), &query)
	if err != nil {
		if query.Query == "" {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		s.respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	topN := 0
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "top_n must be an integer")
			return
		}
		topN = n
	}
	query := &models.RecommendQuery{
		Title:  title,
		TopN:   topN,
		Enrich: r.URL.Query().Get("enrich") == "true",
	}
	s.logger.Debug("recommend request", zap.String("title", title), zap.Int("top_n", query.TopN))
	response, err := s.engine.Recommend(r.Context(), query)
	if err != nil {
		s.logger.Error("recommend failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("language")
	if language == "" {
		s.respondError(w, http.StatusBadRequest, "language is required")
		return
	}
	s.respondJSON(w, http.StatusOK, s.engine.Popular(r.Context(), language))
}

func (s *Server) handleFeatured(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.engine.Featured(r.Context()))
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		s.respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !s.engine.EnrichmentEnabled() {
		s.respondError(w, http.StatusServiceUnavailable, "metadata provider not configured")
		return
	}
	details := s.engine.Details(r.Context(), title)
	if details == nil {
		s.respondError(w, http.StatusNotFound, "no metadata for title")
		return
	}
	s.respondJSON(w, http.StatusOK, details)
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"languages": s.engine.Languages(),
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("reload request")
	if err := s.engine.Reload(r.Context()); err != nil {
		s.logger.Error("reload failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.engine.Status()
	resp := map[string]interface{}{
		"bundle_path":        status.BundlePath,
		"loaded_at":          status.LoadedAt,
		"records":            status.Records,
		"languages":          status.Languages,
		"keyword_docs":       status.KeywordDocs,
		"enrichment_enabled": status.EnrichmentEnabled,
	}
	diskBytes, err := utils.DiskUsageBytes(
		s.config.Bundle.Path,
		s.config.Metadata.CachePath,
		s.config.Search.KeywordIndexPath,
	)
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
