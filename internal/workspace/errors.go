package workspace

import (
	"errors"

	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
	"github.com/smallbiznis/quotedesk/internal/render"
	"github.com/smallbiznis/quotedesk/internal/storeclient"
)

var (
	ErrSaveInProgress = errors.New("save_in_progress")
	ErrInvalidPage    = errors.New("invalid_page")
	ErrInvalidSession = errors.New("invalid_session")
)

const popupBlockedMessage = "Popup blocked! Please allow popups for this site."

// userMessage is the text shown to the user for err.
func userMessage(err error) string {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	if rErr, ok := storeclient.AsRemoteError(err); ok {
		return rErr.Message
	}
	if errors.Is(err, render.ErrSurfaceBlocked) {
		return popupBlockedMessage
	}
	return err.Error()
}
