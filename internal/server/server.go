// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the tools and prompts over HTTP. It only routes
// requests into the service and prompt packages.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-analyst/internal/archive"
	"github.com/pdiddy/paper-analyst/internal/prompts"
	"github.com/pdiddy/paper-analyst/internal/service"
	"github.com/pdiddy/paper-analyst/internal/whitepaper"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

// Tools is the subset of service.Analyzer the server calls.
type Tools interface {
	AnalyzeArxiv(ctx context.Context, req service.ArxivRequest) ([]types.PaperRecord, error)
	Whitepapers(ctx context.Context, req service.WhitepaperRequest) []whitepaper.Entry
}

// Records is the read side of the archive.
type Records interface {
	Get(ctx context.Context, id string) (archive.Entry, error)
	List(ctx context.Context, opts archive.QueryOptions) ([]archive.Entry, error)
}

// ToolInfo describes one callable tool or prompt.
type ToolInfo struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Path        string   `json:"path"`
	Description string   `json:"description"`
	Params      []string `json:"params"`
}

var catalogue = []ToolInfo{
	{
		Name: "fetch_arxiv_papers", Kind: "tool", Path: "/tools/fetch_arxiv_papers",
		Description: "Search arXiv, download each PDF and run the template analysis pipeline.",
		Params:      []string{"keywords", "max_results", "author"},
	},
	{
		Name: "fetch_white_papers", Kind: "tool", Path: "/tools/fetch_white_papers",
		Description: "Find company whitepapers whose link text matches the keywords.",
		Params:      []string{"company", "keywords", "max_results"},
	},
	{
		Name: "explain_concept", Kind: "prompt", Path: "/prompts/explain_concept",
		Description: "Build a concept explanation prompt at a detail level.",
		Params:      []string{"concept", "detail_level"},
	},
	{
		Name: "summarize_paper", Kind: "prompt", Path: "/prompts/summarize_paper",
		Description: "Build a paper summary prompt from a context-selected template.",
		Params:      []string{"paper_text", "context", "template_key"},
	},
}

// New builds the gin engine. records may be nil, in which case the
// /records routes are not registered.
func New(tools Tools, records Records, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogging(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/tools", func(c *gin.Context) {
		c.JSON(http.StatusOK, catalogue)
	})

	r.POST("/tools/fetch_arxiv_papers", fetchArxivHandler(tools))
	r.POST("/tools/fetch_white_papers", fetchWhitepapersHandler(tools))
	r.POST("/prompts/explain_concept", explainHandler())
	r.POST("/prompts/summarize_paper", summarizeHandler())

	if records != nil {
		r.GET("/records", listRecordsHandler(records))
		r.GET("/records/:id", getRecordHandler(records))
	}

	return r
}

func requestLogging(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("api_request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	}
}

func fetchArxivHandler(tools Tools) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.ArxivRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		records, err := tools.AnalyzeArxiv(c.Request.Context(), req)
		if errors.Is(err, service.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		if records == nil {
			records = []types.PaperRecord{}
		}
		c.JSON(http.StatusOK, records)
	}
}

type whitepaperBody struct {
	Company    string `json:"company" binding:"required"`
	Keywords   string `json:"keywords" binding:"required"`
	MaxResults int    `json:"max_results"`
}

func fetchWhitepapersHandler(tools Tools) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body whitepaperBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		entries := tools.Whitepapers(c.Request.Context(), service.WhitepaperRequest{
			Company:    body.Company,
			Keywords:   body.Keywords,
			MaxResults: body.MaxResults,
		})
		c.JSON(http.StatusOK, entries)
	}
}

type explainBody struct {
	Concept     string `json:"concept" binding:"required"`
	DetailLevel string `json:"detail_level"`
}

func explainHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body explainBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"prompt": prompts.ExplainConcept(body.Concept, body.DetailLevel)})
	}
}

type summarizeBody struct {
	PaperText   string `json:"paper_text" binding:"required"`
	Context     string `json:"context"`
	TemplateKey string `json:"template_key"`
}

func summarizeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body summarizeBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"prompt":               prompts.SummarizePaper(body.PaperText, body.Context, body.TemplateKey),
			"recommended_template": prompts.SelectTemplate(body.Context),
		})
	}
}

func listRecordsHandler(records Records) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := archive.QueryOptions{
			Query:    c.Query("q"),
			Template: c.Query("template"),
		}
		opts.Failed, _ = strconv.ParseBool(c.DefaultQuery("failed", "false"))
		opts.MaxResults, _ = strconv.Atoi(c.DefaultQuery("max_results", "0"))

		entries, err := records.List(c.Request.Context(), opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if entries == nil {
			entries = []archive.Entry{}
		}
		c.JSON(http.StatusOK, entries)
	}
}

func getRecordHandler(records Records) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry, err := records.Get(c.Request.Context(), c.Param("id"))
		if errors.Is(err, archive.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}
