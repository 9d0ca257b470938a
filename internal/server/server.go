// Package server is the console backend: a gin service the browser front
// end calls for imports, exports, entity edits, order drafts, receipts, the
// dashboard and the assistant. Every /api call acts for the user whose ID
// token it carries.
package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/datsun80zx/stockdesk/internal/apiclient"
	"github.com/datsun80zx/stockdesk/internal/importer"
	"github.com/datsun80zx/stockdesk/internal/logger"
	"github.com/datsun80zx/stockdesk/internal/order"
	"github.com/datsun80zx/stockdesk/internal/parser"
	"github.com/datsun80zx/stockdesk/internal/schema"
	"github.com/datsun80zx/stockdesk/internal/session"
	"github.com/datsun80zx/stockdesk/internal/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionKey = "session"

// History lists stored import runs. *store.Store satisfies it.
type History interface {
	ListRuns(ctx context.Context, limit int) ([]store.ImportRun, error)
}

// Server holds the shared collaborators. Per-request clients are derived
// from them with the caller's token.
type Server struct {
	client   *apiclient.Client
	importer *importer.Importer
	drafts   order.DraftStore
	history  History
	log      *zap.Logger
}

// New creates a server. history may be nil when no database is configured.
func New(client *apiclient.Client, imp *importer.Importer, drafts order.DraftStore, history History, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		client:   client,
		importer: imp,
		drafts:   drafts,
		history:  history,
		log:      log,
	}
}

// Router builds the gin engine
func (s *Server) Router(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = importer.MaxFileSize
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(s.log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	api := r.Group("/api", s.requireSession())
	{
		api.GET("/profile", s.profile)
		api.GET("/dashboard", s.getDashboard)

		api.GET("/products", s.listProducts)
		api.PUT("/products/:id", s.updateProduct)
		api.DELETE("/products/:id", s.deleteProduct)
		api.GET("/customers", s.listCustomers)
		api.DELETE("/customers/:id", s.deleteCustomer)
		api.GET("/vendors", s.listVendors)
		api.PUT("/vendors/:id", s.updateVendor)
		api.DELETE("/vendors/:id", s.deleteVendor)
		api.GET("/exports/:kind", s.exportEntities)

		imports := api.Group("/imports")
		imports.GET("/active", s.activeImports)
		imports.GET("/history", s.importHistory)
		imports.GET("/:kind/template", s.importTemplate)
		imports.POST("/:kind", s.runImport)

		drafts := api.Group("/orders/drafts")
		drafts.POST("", s.openDraft)
		drafts.GET("/:id", s.getDraft)
		drafts.PUT("/:id", s.updateDraft)
		drafts.DELETE("/:id", s.deleteDraft)
		drafts.POST("/:id/lines", s.addLine)
		drafts.DELETE("/:id/lines/:index", s.removeLine)
		drafts.POST("/:id/submit", s.submitDraft)

		api.GET("/receipts", s.listReceipts)
		api.GET("/receipts/:id/pdf", s.receiptPDF)

		api.POST("/assistant/query", s.assistantQuery)
	}

	return r
}

// requireSession builds a session from the bearer token and closes it when
// the request is done
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}

		sess, err := session.New(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		defer sess.Close()

		if _, err := sess.IDToken(c.Request.Context()); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

// backend is the API client acting for the caller
func (s *Server) backend(c *gin.Context) *apiclient.Client {
	return s.client.WithTokens(currentSession(c))
}

func (s *Server) profile(c *gin.Context) {
	p, err := s.backend(c).Profile(c.Request.Context(), currentSession(c).CurrentUser())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// fail writes err with the status it maps to
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}

	var apiErr *apiclient.APIError
	var stockErr *order.StockError
	switch {
	case errors.As(err, &apiErr):
		body = gin.H{"error": apiErr.Body, "upstreamStatus": apiErr.StatusCode}
	case errors.As(err, &stockErr):
		body["remaining"] = stockErr.Remaining()
	}

	log := logger.FromContext(c, s.log)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", zap.Int("status", status), zap.Error(err))
	} else {
		log.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, body)
}

func statusFor(err error) int {
	var (
		apiErr   *apiclient.APIError
		stockErr *order.StockError
		parseErr *parser.ParseError
		urlErr   *url.Error
	)

	switch {
	case errors.Is(err, session.ErrNoUser),
		errors.Is(err, session.ErrTokenExpired),
		errors.Is(err, session.ErrClosed),
		errors.Is(err, errOwnerRejected):
		return http.StatusUnauthorized
	case errors.Is(err, order.ErrDraftNotFound), errors.Is(err, schema.ErrNothingToExport):
		return http.StatusNotFound
	case errors.Is(err, importer.ErrImportInProgress), errors.As(err, &stockErr):
		return http.StatusConflict
	case errors.As(err, &apiErr), errors.As(err, &urlErr):
		return http.StatusBadGateway
	case errors.As(err, &parseErr),
		errors.Is(err, parser.ErrEmptyFile),
		errors.Is(err, schema.ErrUnknownKind),
		errors.Is(err, schema.ErrInvalidEntity),
		errors.Is(err, importer.ErrNoFile),
		errors.Is(err, importer.ErrFileTooLarge),
		errors.Is(err, importer.ErrUnsupportedFile),
		errors.Is(err, order.ErrNoCustomer),
		errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrUnknownCustomer),
		errors.Is(err, order.ErrUnknownProduct),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrLineIndex),
		errors.Is(err, order.ErrInvalidDate),
		errors.Is(err, apiclient.ErrEmptyPrompt):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
