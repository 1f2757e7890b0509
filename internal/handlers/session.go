package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labubu_store/internal/middleware"
)

// POST /api/session
// Issues a bearer token for the caller's session, so a native client can keep
// the same cart without cookies.
func (h *Handler) IssueSession(c *gin.Context) {
	id := middleware.SessionID(c)
	token, expires, err := h.Tokens.Issue(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"token":     token,
		"sessionId": id,
		"expiresAt": expires,
	})
}

// GET /healthz
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
