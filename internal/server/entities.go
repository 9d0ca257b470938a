package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/datsun80zx/stockdesk/internal/dashboard"
	"github.com/datsun80zx/stockdesk/internal/logger"
	"github.com/datsun80zx/stockdesk/internal/models"
	"github.com/datsun80zx/stockdesk/internal/schema"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// entityID reads the :id path parameter, answering 400 when it is not a
// positive integer
func entityID(c *gin.Context, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s ID", label)})
		return 0, false
	}
	return id, true
}

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.backend(c).ListProducts(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) updateProduct(c *gin.Context) {
	id, ok := entityID(c, "product")
	if !ok {
		return
	}

	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := schema.Validate(&p); err != nil {
		s.fail(c, err)
		return
	}
	p.ID = id

	updated, err := s.backend(c).UpdateProduct(c.Request.Context(), id, &p)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := entityID(c, "product")
	if !ok {
		return
	}
	if err := s.backend(c).DeleteProduct(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listCustomers(c *gin.Context) {
	customers, err := s.backend(c).ListCustomers(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (s *Server) deleteCustomer(c *gin.Context) {
	id, ok := entityID(c, "customer")
	if !ok {
		return
	}
	if err := s.backend(c).DeleteCustomer(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listVendors(c *gin.Context) {
	vendors, err := s.backend(c).ListVendors(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, vendors)
}

func (s *Server) updateVendor(c *gin.Context) {
	id, ok := entityID(c, "vendor")
	if !ok {
		return
	}

	var v models.Vendor
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := schema.Validate(&v); err != nil {
		s.fail(c, err)
		return
	}
	v.ID = id

	updated, err := s.backend(c).UpdateVendor(c.Request.Context(), id, &v)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteVendor(c *gin.Context) {
	id, ok := entityID(c, "vendor")
	if !ok {
		return
	}
	if err := s.backend(c).DeleteVendor(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// exportEntities downloads every entity of a kind as CSV
func (s *Server) exportEntities(c *gin.Context) {
	kind, err := schema.ParseKind(c.Param("kind"))
	if err != nil {
		s.fail(c, err)
		return
	}

	entities, err := s.backend(c).ListKind(c.Request.Context(), kind)
	if err != nil {
		s.fail(c, err)
		return
	}

	content, err := schema.Export(kind, entities)
	if err != nil {
		s.fail(c, err)
		return
	}

	filename := schema.ExportFilename(kind, time.Now())
	logger.FromContext(c, s.log).Debug("Export served", zap.String("kind", string(kind)), zap.Int("bytes", len(content)))

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", content)
}

func (s *Server) getDashboard(c *gin.Context) {
	d, err := dashboard.Load(c.Request.Context(), s.backend(c), currentSession(c).CurrentUser(), time.Now(), logger.FromContext(c, s.log))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
