package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/datsun80zx/stockdesk/internal/importer"
	"github.com/datsun80zx/stockdesk/internal/logger"
	"github.com/datsun80zx/stockdesk/internal/schema"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
	errorSummaryLimit   = 3
)

func (s *Server) importTemplate(c *gin.Context) {
	kind, err := schema.ParseKind(c.Param("kind"))
	if err != nil {
		s.fail(c, err)
		return
	}

	filename, content, err := schema.Template(kind)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", content)
}

// runImport imports the uploaded file synchronously and answers with the
// run's outcome. Row failures are part of a 200 response.
func (s *Server) runImport(c *gin.Context) {
	kind, err := schema.ParseKind(c.Param("kind"))
	if err != nil {
		s.fail(c, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		s.fail(c, importer.ErrNoFile)
		return
	}

	file := importer.FileFromHeader(fh)
	if err := importer.SelectFile(file); err != nil {
		s.fail(c, err)
		return
	}

	imp := s.importer.WithBackend(s.backend(c))
	result, err := imp.Run(c.Request.Context(), file, kind, nil)
	if err != nil {
		s.fail(c, err)
		return
	}

	logger.FromContext(c, s.log).Info("Import request completed",
		zap.String("run_id", result.RunID),
		zap.Int("success", result.Stats.Success),
		zap.Int("failed", result.Stats.Failed),
	)

	c.JSON(http.StatusOK, gin.H{
		"message": result.Message(),
		"summary": result.Stats.Summary(errorSummaryLimit),
		"result":  result,
	})
}

func (s *Server) activeImports(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"runs": s.importer.Active()})
}

func (s *Server) importHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Import history is not enabled"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	runs, err := s.history.ListRuns(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
