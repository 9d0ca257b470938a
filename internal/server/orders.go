package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/datsun80zx/stockdesk/internal/apiclient"
	"github.com/datsun80zx/stockdesk/internal/logger"
	"github.com/datsun80zx/stockdesk/internal/order"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type updateDraftRequest struct {
	CustomerID *int64  `json:"customerId"`
	OrderDate  *string `json:"orderDate"`
}

type addLineRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int64 `json:"quantity"`
}

// draftResponse adds the per-product remaining quantities the product
// picker shows
type draftResponse struct {
	*order.Draft
	Remaining map[int64]int64 `json:"remaining"`
}

func newDraftResponse(d *order.Draft) draftResponse {
	remaining := make(map[int64]int64, len(d.Catalog.Items))
	for _, item := range d.Catalog.Items {
		if n, err := d.Remaining(item.ID); err == nil {
			remaining[item.ID] = n
		}
	}
	return draftResponse{Draft: d, Remaining: remaining}
}

const ownerKey = "draftOwner"

// errOwnerRejected means the backend refused the caller's token
var errOwnerRejected = errors.New("token rejected by backend")

// draftOwner is the caller's identity as the backend's profile endpoint
// reports it. Session claims are parsed without a signature check, so
// drafts are never keyed by them.
func (s *Server) draftOwner(c *gin.Context) (string, error) {
	if owner := c.GetString(ownerKey); owner != "" {
		return owner, nil
	}

	p, err := s.backend(c).Profile(c.Request.Context(), nil)
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
			return "", errOwnerRejected
		}
		return "", err
	}

	owner := p.UID
	if owner == "" {
		owner = p.Email
	}
	if owner == "" {
		return "", errOwnerRejected
	}
	c.Set(ownerKey, owner)
	return owner, nil
}

// loadDraft fetches a draft belonging to the caller
func (s *Server) loadDraft(ctx context.Context, c *gin.Context) (*order.Draft, error) {
	owner, err := s.draftOwner(c)
	if err != nil {
		return nil, err
	}
	d, err := s.drafts.Get(ctx, c.Param("id"))
	if err != nil {
		return nil, err
	}
	if d.Owner != owner {
		return nil, order.ErrDraftNotFound
	}
	return d, nil
}

func (s *Server) openDraft(c *gin.Context) {
	ctx := c.Request.Context()

	owner, err := s.draftOwner(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	d, err := order.Open(ctx, s.backend(c), time.Now())
	if err != nil {
		s.fail(c, err)
		return
	}
	d.Owner = owner

	if err := s.drafts.Save(ctx, d); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newDraftResponse(d))
}

func (s *Server) getDraft(c *gin.Context) {
	d, err := s.loadDraft(c.Request.Context(), c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newDraftResponse(d))
}

func (s *Server) updateDraft(c *gin.Context) {
	var req updateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mutateDraft(c, func(d *order.Draft) error {
		if req.CustomerID != nil {
			if err := d.SetCustomer(*req.CustomerID); err != nil {
				return err
			}
		}
		if req.OrderDate != nil {
			return d.SetOrderDate(*req.OrderDate)
		}
		return nil
	})
}

func (s *Server) addLine(c *gin.Context) {
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mutateDraft(c, func(d *order.Draft) error {
		return d.AddLine(req.ProductID, req.Quantity)
	})
}

func (s *Server) removeLine(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		s.fail(c, order.ErrLineIndex)
		return
	}

	s.mutateDraft(c, func(d *order.Draft) error {
		return d.RemoveLine(index)
	})
}

// mutateDraft loads the draft, applies fn and saves it only when fn
// succeeded, so a rejected change leaves the stored draft as it was
func (s *Server) mutateDraft(c *gin.Context, fn func(d *order.Draft) error) {
	ctx := c.Request.Context()

	d, err := s.loadDraft(ctx, c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := fn(d); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.drafts.Save(ctx, d); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newDraftResponse(d))
}

// submitDraft sends the order. The draft is deleted once the backend
// accepted it and kept untouched when it was rejected.
func (s *Server) submitDraft(c *gin.Context) {
	ctx := c.Request.Context()

	d, err := s.loadDraft(ctx, c)
	if err != nil {
		s.fail(c, err)
		return
	}

	receipt, err := d.Submit(ctx, s.backend(c))
	if err != nil {
		s.fail(c, err)
		return
	}

	if err := s.drafts.Delete(ctx, d.ID); err != nil {
		logger.FromContext(c, s.log).Warn("Failed to delete submitted draft",
			zap.String("draft_id", d.ID), zap.Error(err))
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"receipt": receipt,
	})
}

func (s *Server) deleteDraft(c *gin.Context) {
	ctx := c.Request.Context()

	d, err := s.loadDraft(ctx, c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.drafts.Delete(ctx, d.ID); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
