package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/homedrive/internal/common"
	"github.com/gin-gonic/gin"
)

// writeError maps service sentinels onto HTTP statuses. Conflicts and
// not-found are reported verbatim so clients can retry or inform the user;
// store-level failures are logged with detail here and reported
// generically.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrorInvalidSessionCookie):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, common.ErrorInvalidClaimCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid claim code"})
	case errors.Is(err, common.ErrorClaimCodeUsed):
		c.JSON(http.StatusConflict, gin.H{"error": "claim code already used"})
	case errors.Is(err, common.ErrorLoginTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "login already taken"})
	case errors.Is(err, common.ErrorNameConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "name conflict"})
	case errors.Is(err, common.ErrorInvalidName):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid name"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrorQuotaExceeded):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "quota exceeded"})
	default:
		s.logger.Error(c.Request.Context(), "internal error", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
