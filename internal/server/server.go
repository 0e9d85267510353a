package server

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"goldtracker/internal/analysis"
	"goldtracker/internal/model"
)

// PriceReader serves the current (possibly stale) gold price.
type PriceReader interface {
	GetPrice(ctx context.Context) (model.PricePoint, error)
}

// HistorySource provides recent daily closes for day-over-day change.
type HistorySource interface {
	FetchDailyCloses(ctx context.Context, days int) ([]float64, error)
}

// AnalysisRunner is the slice of the orchestrator the API exposes.
type AnalysisRunner interface {
	Start() error
	Status() analysis.Status
}

// Server is the JSON API in front of the tracker core.
type Server struct {
	price   PriceReader
	history HistorySource
	runner  AnalysisRunner

	engine *gin.Engine
	srv    *http.Server
}

// NewServer builds the gin engine and registers routes.
func NewServer(price PriceReader, history HistorySource, runner AnalysisRunner) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		price:   price,
		history: history,
		runner:  runner,
		engine:  gin.New(),
	}
	s.engine.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/api/gold-price", s.getGoldPrice)
	s.engine.POST("/api/start-analysis", s.startAnalysis)
	s.engine.GET("/api/analysis-status", s.getAnalysisStatus)
	s.engine.GET("/api/health", s.getHealth)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Start begins serving on addr and blocks until shutdown.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{Addr: addr, Handler: s.engine}
	log.Printf("[INFO] http server listening on %s", addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *Server) getGoldPrice(c *gin.Context) {
	pt, err := s.price.GetPrice(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Unable to fetch gold price",
		})
		return
	}

	// Change fields are best-effort: a missing history fetch degrades
	// to zero change, never a failed price response.
	var change, changePct float64
	if closes, err := s.history.FetchDailyCloses(c.Request.Context(), 5); err == nil && len(closes) >= 2 {
		prev := closes[len(closes)-2]
		change = pt.Price - prev
		if prev != 0 {
			changePct = change / prev * 100
		}
	} else if err != nil {
		log.Printf("[WARN] change history fetch failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"price":      round2(pt.Price),
		"change":     round2(change),
		"change_pct": round2(changePct),
		"timestamp":  pt.Timestamp.Format(time.RFC3339),
		"source":     pt.Source,
		"stale":      pt.Stale,
	})
}

func (s *Server) startAnalysis(c *gin.Context) {
	if err := s.runner.Start(); err != nil {
		if errors.Is(err, analysis.ErrAlreadyRunning) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   "Analysis already running",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Analysis started",
	})
}

func (s *Server) getAnalysisStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.runner.Status())
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
