package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cognicore/trendops/internal/governance"
	"github.com/cognicore/trendops/internal/llm"
	"github.com/cognicore/trendops/internal/settings"
	"github.com/cognicore/trendops/internal/youtube"
	"github.com/cognicore/trendops/pkg/trendops"
	"github.com/cognicore/trendops/pkg/trendops/internalerr"
	"github.com/cognicore/trendops/pkg/trendops/report"
	"github.com/cognicore/trendops/pkg/trendops/store"
)

const (
	toolFetch    = "youtube_trending"
	toolAnalyze  = "analytics"
	toolBriefing = "llm_intelligence"
)

type healthResponse struct {
	Status            string `json:"status"`
	Agent             string `json:"agent"`
	YouTubeConfigured bool   `json:"youtube_configured"`
	LLMConfigured     bool   `json:"llm_configured"`
	RequestsRemaining int    `json:"requests_remaining"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:            "healthy",
		Agent:             "trendops",
		YouTubeConfigured: s.fetcher != nil,
		LLMConfigured:     s.brieferEnabled(),
		RequestsRemaining: s.tracker.Remaining(),
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) brieferEnabled() bool {
	if s.briefer == nil {
		return false
	}
	if e, ok := s.briefer.(interface{ Enabled() bool }); ok {
		return e.Enabled()
	}
	return true
}

type analyzeData struct {
	VideosAnalyzed int    `json:"videos_analyzed"`
	Region         string `json:"region"`
	Category       string `json:"category,omitempty"`
}

type governanceSummary struct {
	SessionID         string `json:"session_id"`
	RequestsRemaining int    `json:"requests_remaining"`
	Executions        int    `json:"executions"`
}

type analyzeResponse struct {
	Status       string            `json:"status"`
	ID           string            `json:"id"`
	Data         analyzeData       `json:"data"`
	Analytics    trendops.Report   `json:"analytics"`
	Intelligence *llm.Intelligence `json:"intelligence"`
	Governance   governanceSummary `json:"governance"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req governance.AnalyzeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(w, fmt.Errorf("%w: invalid JSON body: %v", internalerr.ErrInvalidInput, err))
		return
	}
	if err := req.Normalize(s.limits.DefaultMaxResults, s.limits.MaxResultsPerRequest); err != nil {
		s.respondError(w, err)
		return
	}
	if s.fetcher == nil {
		s.respondError(w, fmt.Errorf("%w: YOUTUBE_API_KEY not configured", internalerr.ErrInvalidConfig))
		return
	}
	if err := s.tracker.Reserve(1); err != nil {
		s.respondError(w, err)
		return
	}

	ctx := r.Context()
	var items []trendops.Item
	err := s.tracker.Instrument(ctx, toolFetch, func(ctx context.Context) (governance.Usage, error) {
		var err error
		items, err = s.fetcher.FetchTrending(ctx, youtube.Query{
			RegionCode: req.RegionCode,
			CategoryID: req.CategoryID,
			MaxResults: req.MaxResults,
		})
		return governance.Usage{APICalls: 1}, err
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	var rep trendops.Report
	err = s.tracker.Instrument(ctx, toolAnalyze, func(ctx context.Context) (governance.Usage, error) {
		if err := ctx.Err(); err != nil {
			return governance.Usage{}, fmt.Errorf("analysis aborted: %w", err)
		}
		rep = s.builder.Stamp(s.engine.Analyze(items))
		return governance.Usage{}, nil
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	var intel *llm.Intelligence
	if req.IncludeIntelligence && s.brieferEnabled() {
		err := s.tracker.Instrument(ctx, toolBriefing, func(ctx context.Context) (governance.Usage, error) {
			var err error
			intel, err = s.briefer.IntelligenceReport(ctx, rep, req.RegionCode)
			if intel != nil {
				return governance.Usage{APICalls: 1, EstimatedTokens: intel.EstimatedTokens}, err
			}
			return governance.Usage{APICalls: 1}, err
		})
		if err != nil {
			s.log.Warn().Err(err).Str("report_id", rep.ID).Msg("intelligence briefing failed; continuing without it")
			intel = nil
		}
	}

	stored := store.StoredReport{
		ID:        rep.ID,
		CreatedAt: rep.GeneratedAt,
		Region:    req.RegionCode,
		Category:  req.CategoryID,
		Report:    rep,
	}
	if err := s.store.SaveReport(ctx, stored); err != nil {
		s.respondError(w, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err))
		return
	}

	trace := s.tracker.Trace()
	s.respondJSON(w, http.StatusOK, analyzeResponse{
		Status: "success",
		ID:     rep.ID,
		Data: analyzeData{
			VideosAnalyzed: len(items),
			Region:         req.RegionCode,
			Category:       req.CategoryID,
		},
		Analytics:    rep,
		Intelligence: intel,
		Governance: governanceSummary{
			SessionID:         trace.SessionID,
			RequestsRemaining: s.tracker.Remaining(),
			Executions:        trace.TotalExecutions,
		},
	})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.respondError(w, fmt.Errorf("%w: limit must be a positive integer", internalerr.ErrInvalidInput))
			return
		}
		limit = n
	}
	summaries, err := s.store.ListReports(r.Context(), limit)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"reports": summaries})
}

// handleGetReport serves /reports/{id} as JSON and /reports/{id}.html as
// rendered HTML. Report IDs never contain a dot.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	asHTML := false
	if trimmed, ok := strings.CutSuffix(id, ".html"); ok {
		id, asHTML = trimmed, true
	}

	stored, err := s.store.GetReport(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if !asHTML {
		s.respondJSON(w, http.StatusOK, stored)
		return
	}

	body, err := report.HTML(stored.Report)
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.tracker.Trace())
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"regions": settings.Regions(),
		"default": governance.DefaultRegion,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"categories": settings.Categories(),
	})
}
