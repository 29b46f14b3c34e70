package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/homedrive/internal/common"
	"github.com/dmitrijs2005/homedrive/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const (
	ctxAccountID = "accountID"
	ctxLogin     = "login"
	ctxToken     = "sessionToken"
)

// sessionAuth verifies the signed session cookie and resolves it against
// the registry, refreshing the sliding window. The cookie is re-issued on
// every authenticated request so its signature and Max-Age slide along with
// the registry window; otherwise an always-active client would still be
// cut off one idle-timeout after login. Every failure mode produces the
// same generic 401.
func (s *Server) sessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(common.SessionCookieName)
		if err != nil || cookie == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		token, err := auth.SessionTokenFromCookie(cookie, s.secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		session, err := s.accounts.GetSessionInfo(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if err := s.setSessionCookie(c, session); err != nil {
			s.logger.Error(c.Request.Context(), "session cookie refresh failed", "error", err.Error())
		}

		c.Set(ctxAccountID, session.AccountID)
		c.Set(ctxLogin, session.Login)
		c.Set(ctxToken, session.Token)
		c.Next()
	}
}

func (s *Server) accountID(c *gin.Context) string {
	return c.GetString(ctxAccountID)
}
