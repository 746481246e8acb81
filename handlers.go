package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/analyzer"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/autofill"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/config"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/content"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/export"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/ingest"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/middleware"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/pagecheck"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/stats"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/store"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/usage"
)

// server bundles the dependencies the HTTP handlers need.
type server struct {
	cfg      *config.Config
	db       *store.DB
	analyzer *analyzer.Analyzer
	checker  *pagecheck.Checker
	importer *ingest.Importer
	stats    *stats.Storage
	usage    *usage.Statistics
}

// newRouter wires the middleware chain and the API routes.
func newRouter(srv *server, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.ErrorHandler())
	r.Use(limiter.RateLimit())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.Use(middleware.Usage(srv.usage))

	api := r.Group("/api")
	{
		api.GET("/health", srv.health)

		// Scoring without persistence, for editors polling while they write.
		api.POST("/audit", srv.auditDocument)

		// Ledger snapshots.
		api.POST("/documents", srv.createDocument)
		api.GET("/documents", srv.listDocuments)
		api.GET("/documents/:id", srv.getDocument)
		api.DELETE("/documents/:id", srv.deleteDocument)
		api.POST("/documents/:id/audit", srv.reauditDocument)
		api.GET("/documents/:id/audits", srv.listAuditRuns)
		api.POST("/documents/:id/export", srv.exportDocument)

		api.POST("/import", srv.importDocument)
		api.POST("/pagecheck", srv.checkPage)
		api.GET("/statistics", srv.statistics)
	}

	return r
}

func (s *server) health(c *gin.Context) {
	log.Debug("health check", "ip", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// auditDocument scores a draft as submitted. Nothing is stored, so editors
// can call it on every revision.
func (s *server) auditDocument(c *gin.Context) {
	var doc content.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid document payload",
		})
		return
	}
	c.Set(middleware.ContextSlugKey, doc.Slug.Current)

	report := s.analyzer.Audit(&doc)
	s.stats.RecordAudit(report.Score)

	c.JSON(http.StatusOK, report)
}

// createDocument runs autofill over the submitted draft, audits it, and
// snapshots the populated document into the ledger.
func (s *server) createDocument(c *gin.Context) {
	var doc content.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid document payload",
		})
		return
	}

	autofill.Populate(&doc, time.Now())
	report := s.analyzer.Audit(&doc)
	doc.SEOScore = report.Score

	// Assign the ID before snapshotting so the stored JSON carries it too.
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	ctx := c.Request.Context()
	rec := &store.Record{
		ID:        doc.ID,
		Slug:      doc.Slug.Current,
		Title:     doc.Title,
		Score:     report.Score,
		WordCount: doc.WordCount,
		Status:    doc.WorkflowStatus,
		Document:  &doc,
	}
	if err := s.db.SaveDocument(ctx, rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to store document: " + err.Error(),
		})
		return
	}

	run := &store.AuditRun{DocumentID: rec.ID, Score: report.Score, Report: report}
	if err := s.db.SaveAuditRun(ctx, run); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to record audit: " + err.Error(),
		})
		return
	}
	s.stats.RecordAudit(report.Score)

	c.JSON(http.StatusCreated, gin.H{
		"document": &doc,
		"report":   report,
	})
}

// listDocuments returns ledger summaries. A ?slug= query narrows to the
// snapshot for that slug, which is how the CMS webhook addresses records.
func (s *server) listDocuments(c *gin.Context) {
	ctx := c.Request.Context()

	if slug := c.Query("slug"); slug != "" {
		rec, err := s.db.GetDocumentBySlug(ctx, slug)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to load document: " + err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"documents": []*store.Record{rec},
			"count":     1,
		})
		return
	}

	docs, err := s.db.ListDocuments(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list documents: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"documents": docs,
		"count":     len(docs),
	})
}

func (s *server) getDocument(c *gin.Context) {
	rec, err := s.db.GetDocument(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load document: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *server) deleteDocument(c *gin.Context) {
	err := s.db.DeleteDocument(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete document: " + err.Error(),
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// reauditDocument re-scores a stored snapshot and appends the run to its
// audit history. The ledger row's score and last audit time move with it.
func (s *server) reauditDocument(c *gin.Context) {
	ctx := c.Request.Context()
	rec, err := s.db.GetDocument(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load document: " + err.Error(),
		})
		return
	}
	c.Set(middleware.ContextSlugKey, rec.Slug)

	report := s.analyzer.Audit(rec.Document)
	run := &store.AuditRun{DocumentID: rec.ID, Score: report.Score, Report: report}
	if err := s.db.SaveAuditRun(ctx, run); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to record audit: " + err.Error(),
		})
		return
	}
	s.stats.RecordAudit(report.Score)

	c.JSON(http.StatusOK, run)
}

func (s *server) listAuditRuns(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := s.db.GetDocument(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load document: " + err.Error(),
		})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = n
	}

	runs, err := s.db.ListAuditRuns(ctx, id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list audit runs: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"documentId": id,
		"runs":       runs,
		"count":      len(runs),
	})
}

// exportDocument writes the stored snapshot as a markdown file under the
// content directory the static site builds from.
func (s *server) exportDocument(c *gin.Context) {
	rec, err := s.db.GetDocument(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load document: " + err.Error(),
		})
		return
	}

	path, err := export.WriteFile(rec.Document, s.cfg.ContentDir)
	if errors.Is(err, export.ErrNoSlug) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Document has no slug, run autofill first",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to export document: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

// importDocument fetches a live page and turns its readable content into a
// draft. The draft comes back populated and scored but is not stored, so an
// editor can review it before snapshotting.
func (s *server) importDocument(c *gin.Context) {
	var request struct {
		URL string `json:"url" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid URL provided",
		})
		return
	}

	doc, err := s.importer.FromURL(c.Request.Context(), request.URL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to import page: " + err.Error(),
		})
		return
	}

	autofill.Populate(doc, time.Now())
	report := s.analyzer.Audit(doc)
	doc.SEOScore = report.Score

	c.JSON(http.StatusOK, gin.H{
		"document": doc,
		"report":   report,
	})
}

func (s *server) checkPage(c *gin.Context) {
	var request struct {
		URL string `json:"url" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid URL provided",
		})
		return
	}

	result, err := s.checker.Check(c.Request.Context(), request.URL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to check page: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *server) statistics(c *gin.Context) {
	overview, err := s.db.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to summarize ledger: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"usage":   s.usage.Snapshot(),
		"monthly": s.stats.GetCurrentStats(),
		"ledger":  overview,
		"cache":   s.checker.CacheStats(),
	})
}
