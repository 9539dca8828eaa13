package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
	"github.com/smallbiznis/quotedesk/internal/render"
)

func parseOptionalInt(value string) (*int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, ErrInvalidRequest
	}
	return &parsed, nil
}

func parseIndex(value string) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || idx < 0 {
		return 0, domain.ErrItemIndex
	}
	return idx, nil
}

func parseID(value string) (domain.ID, error) {
	id := domain.ID(strings.TrimSpace(value))
	if id.IsZero() {
		return "", domain.ErrInvalidID
	}
	return id, nil
}

func variantQuery(c *gin.Context) (domain.Variant, error) {
	return domain.ParseVariant(strings.ToLower(strings.TrimSpace(c.Query("variant"))))
}

func formatQuery(c *gin.Context) (render.Format, error) {
	return render.ParseFormat(c.Query("format"))
}
