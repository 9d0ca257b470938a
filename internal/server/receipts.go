package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/datsun80zx/stockdesk/internal/apiclient"
	"github.com/gin-gonic/gin"
)

type assistantRequest struct {
	Prompt string `json:"prompt"`
	Mode   string `json:"mode" binding:"omitempty,oneof=assist sql"`
}

func (s *Server) listReceipts(c *gin.Context) {
	receipts, err := s.backend(c).ListReceipts(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, receipts)
}

// receiptPDF passes the backend's PDF through untouched
func (s *Server) receiptPDF(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid receipt ID"})
		return
	}

	resp, err := s.backend(c).ReceiptPDF(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%d.pdf"`, id))
	c.Data(http.StatusOK, contentType, resp.Body)
}

func (s *Server) assistantQuery(c *gin.Context) {
	var req assistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Mode == "" {
		req.Mode = apiclient.ModeAssist
	}

	reply, err := s.backend(c).AIQuery(c.Request.Context(), req.Prompt, req.Mode)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
