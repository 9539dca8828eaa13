package server

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/quotedesk/internal/quotation/contract"
)

// PrintQuotation serves the HTML document with its print trigger active.
func (s *Server) PrintQuotation(c *gin.Context) {
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

	q, err := s.documents.Load(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if _, err := s.documents.Print(c.Request.Context(), q, variant, responseSurface{c: c}); err != nil {
		AbortWithError(c, err)
	}
}

func (s *Server) DownloadQuotation(c *gin.Context) {
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
	format, err := formatQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	q, err := s.documents.Load(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	dl, err := s.documents.Download(c.Request.Context(), q, variant, format)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.Filename}))
	c.Header("Content-Length", strconv.Itoa(len(dl.Body)))
	if dl.Stored != nil {
		c.Header("X-Archive-Key", dl.Stored.Key)
	}
	c.Data(http.StatusOK, dl.ContentType, dl.Body)
}

func (s *Server) ShareQuotation(c *gin.Context) {
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

	q, err := s.documents.Load(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	link, err := s.documents.Share(c.Request.Context(), q, variant)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// ListInventory returns the primed inventory snapshot.
func (s *Server) ListInventory(c *gin.Context) {
	items := s.catalog.Items()
	out := make([]contract.InventoryItem, 0, len(items))
	for _, item := range items {
		out = append(out, contract.InventoryItemFromDomain(item))
	}
	c.JSON(http.StatusOK, gin.H{"items": out, "primed": s.catalog.Primed()})
}
