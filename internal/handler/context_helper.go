package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sales-ops-api/internal/middleware"
	"github.com/noah-isme/sales-ops-api/internal/models"
	appErrors "github.com/noah-isme/sales-ops-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil
	}
	return claims
}

// resolveActor returns the user acting on the request. The authenticated user
// wins; a body value naming somebody else is rejected.
func resolveActor(c *gin.Context, field, supplied string) (string, error) {
	supplied = strings.TrimSpace(supplied)
	claims := claimsFromContext(c)
	if claims == nil {
		return supplied, nil
	}
	if supplied != "" && supplied != claims.UserID {
		return "", appErrors.Clone(appErrors.ErrForbidden, field+" does not match the authenticated user")
	}
	return claims.UserID, nil
}
