package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dlservice-api/internal/middleware"
	"github.com/noah-isme/dlservice-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.SessionClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

// actorFromContext describes the signed-in caller. ok is false outside the session guard.
func actorFromContext(c *gin.Context) (models.Actor, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		return models.Actor{}, false
	}
	return models.Actor{
		UserID:    claims.UserID,
		Username:  claims.Username,
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}, true
}
