package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/homedrive/internal/common"
	"github.com/dmitrijs2005/homedrive/internal/server/auth"
	"github.com/dmitrijs2005/homedrive/internal/server/sessions"
	"github.com/gin-gonic/gin"
)

// setSessionCookie signs the registry token and attaches it as a Strict
// same-site cookie. The Secure flag follows deployment config.
func (s *Server) setSessionCookie(c *gin.Context, session *sessions.Session) error {
	signed, err := auth.SignSessionToken(session.Token, s.secret, s.idleTimeout)
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(common.SessionCookieName, signed, int(s.idleTimeout.Seconds()), "/", "", s.secure, true)
	return nil
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(common.SessionCookieName, "", -1, "/", "", s.secure, true)
}

type claimAccountRequest struct {
	Code  string `json:"code" binding:"required"`
	Login string `json:"login" binding:"required"`
	Proof []byte `json:"proof" binding:"required"`
}

func (s *Server) claimAccount(c *gin.Context) {
	var req claimAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	defer common.WipeByteArray(req.Proof)

	session, err := s.accounts.ClaimAccount(c.Request.Context(), req.Code, req.Login, req.Proof)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if err := s.setSessionCookie(c, session); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account_id": session.AccountID, "login": session.Login})
}

type checkClaimCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

func (s *Server) checkClaimCode(c *gin.Context) {
	var req checkClaimCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	valid, err := s.accounts.CheckClaimCode(c.Request.Context(), req.Code)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

type getUserSaltRequest struct {
	Login string `json:"login" binding:"required"`
}

func (s *Server) getUserSalt(c *gin.Context) {
	var req getUserSaltRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	salt, err := s.accounts.GetUserSalt(c.Request.Context(), req.Login)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"salt": salt})
}

type loginRequest struct {
	Login string `json:"login" binding:"required"`
	Proof []byte `json:"proof" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	defer common.WipeByteArray(req.Proof)

	session, err := s.accounts.Login(c.Request.Context(), req.Login, req.Proof)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if err := s.setSessionCookie(c, session); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account_id": session.AccountID, "login": session.Login})
}

// logout is deliberately unauthenticated: dropping an absent or expired
// session is a no-op, and the cookie is cleared either way.
func (s *Server) logout(c *gin.Context) {
	if cookie, err := c.Cookie(common.SessionCookieName); err == nil && cookie != "" {
		if token, err := auth.SessionTokenFromCookie(cookie, s.secret); err == nil {
			s.accounts.Logout(c.Request.Context(), token)
		}
	}

	s.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) getSessionInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"account_id": c.GetString(ctxAccountID),
		"login":      c.GetString(ctxLogin),
	})
}
