package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/quotedesk/internal/render"
)

// responseSurface writes the print document into the HTTP response. It is
// blocked once anything has been written or the client has gone away.
type responseSurface struct {
	c *gin.Context
}

func (s responseSurface) Open(ctx context.Context, art render.Artifact) error {
	if s.c.Writer.Written() || ctx.Err() != nil {
		return render.ErrSurfaceBlocked
	}
	s.c.Header("Cache-Control", "no-store")
	s.c.Data(http.StatusOK, art.ContentType, art.Body)
	return nil
}
