package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	inventorydomain "github.com/smallbiznis/quotedesk/internal/inventory/domain"
	"github.com/smallbiznis/quotedesk/internal/pagination"
	"github.com/smallbiznis/quotedesk/internal/workspace"
)

const sessionKey = "workspace_session"

type fieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type suggestionRequest struct {
	ID          string          `json:"id"`
	Description string          `json:"description" binding:"required"`
	Rate        decimal.Decimal `json:"rate"`
}

type draftResponse struct {
	workspace.DraftView
	Banner *workspace.Banner `json:"banner,omitempty"`
}

func (s *Server) withSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := s.registry.Session(c.Param("session"))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func session(c *gin.Context) *workspace.Session {
	return c.MustGet(sessionKey).(*workspace.Session)
}

func (s *Server) OpenSession(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"session": workspace.NewSessionID()})
}

// ListQuotations returns the visible page; ?page= navigates first.
func (s *Server) ListQuotations(c *gin.Context) {
	sess := session(c)
	view, err := sess.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	page, err := parseOptionalInt(c.Query("page"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if page != nil {
		view, err = sess.Navigate(c.Request.Context(), c.Query("page"))
		if err != nil {
			AbortWithError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) NavigatePage(c *gin.Context) {
	view, err := session(c).Navigate(c.Request.Context(), c.Param("target"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) GetPagination(c *gin.Context) {
	state := session(c).Pagination()
	c.JSON(http.StatusOK, gin.H{
		"pagination": state,
		"window":     pagination.Window(state),
		"first_item": state.FirstItem(),
		"last_item":  state.LastItem(),
	})
}

func (s *Server) GetDraft(c *gin.Context) {
	c.JSON(http.StatusOK, session(c).Draft())
}

func (s *Server) ResetDraft(c *gin.Context) {
	c.JSON(http.StatusOK, session(c).NewDraft())
}

func (s *Server) UpdateCustomerField(c *gin.Context) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	view, err := session(c).SetCustomerField(req.Field, req.Value)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) AddDraftItem(c *gin.Context) {
	c.JSON(http.StatusOK, session(c).AddItem())
}

func (s *Server) UpdateItemField(c *gin.Context) {
	idx, err := parseIndex(c.Param("index"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	view, err := session(c).SetItemField(idx, req.Field, req.Value)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) RemoveDraftItem(c *gin.Context) {
	idx, err := parseIndex(c.Param("index"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session(c).RemoveItem(idx))
}

func (s *Server) SelectSuggestion(c *gin.Context) {
	idx, err := parseIndex(c.Param("index"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req suggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	view, err := session(c).SelectSuggestion(idx, inventorydomain.Item{
		ID:          req.ID,
		Description: req.Description,
		Rate:        req.Rate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) SaveDraft(c *gin.Context) {
	sess := session(c)
	id, err := sess.Save(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":     id,
		"banner": sess.Banner(),
		"draft":  sess.Draft(),
	})
}

func (s *Server) EditQuotation(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	sess := session(c)
	view, err := sess.Edit(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, draftResponse{DraftView: view, Banner: sess.Banner()})
}

func (s *Server) DeleteQuotation(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	sess := session(c)
	if err := sess.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	view, _ := sess.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"banner": sess.Banner(), "list": view})
}

// PrintSessionQuotation prints a row of the session's visible page.
func (s *Server) PrintSessionQuotation(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	variant, err := variantQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if _, err := session(c).Print(c.Request.Context(), id, variant, responseSurface{c: c}); err != nil {
		AbortWithError(c, err)
	}
}

func (s *Server) Suggestions(c *gin.Context) {
	items := session(c).Suggestions(c.Request.Context(), c.Query("q"))
	if items == nil {
		items = []inventorydomain.Item{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": items})
}

func (s *Server) GetBanner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"banner": session(c).Banner()})
}

func (s *Server) DismissBanner(c *gin.Context) {
	session(c).DismissBanner()
	c.Status(http.StatusNoContent)
}
