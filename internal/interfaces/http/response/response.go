package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "cover-chain.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. AppErrors carry their own status; bare
// sentinel errors are mapped here so usecases can return wrapped sentinels
// without knowing about HTTP.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
			"error":   appErr.Message, // Backward compatibility
		})
		return
	}

	status := statusForSentinel(err)
	c.JSON(status, gin.H{
		"code":    status,
		"message": err.Error(),
		"error":   err.Error(),
	})
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}

func statusForSentinel(err error) int {
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainerrors.ErrInvalidInput),
		errors.Is(err, domainerrors.ErrBadRequest),
		errors.Is(err, domainerrors.ErrUnsupportedChain):
		return http.StatusBadRequest
	case errors.Is(err, domainerrors.ErrUnauthorized),
		errors.Is(err, domainerrors.ErrSignatureInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, domainerrors.ErrOracleUnavailable),
		errors.Is(err, domainerrors.ErrTransportFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
