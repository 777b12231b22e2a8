package middleware

import (
	"net/http"
	"strings"

	"easyloan/internal/pkg/consts"
	"easyloan/internal/pkg/log_messages"
	"easyloan/internal/pkg/logger"
	custom "easyloan/internal/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const callerKey = "easyloan.caller"

// Authenticate verifies the HS256 bearer token issued by the identity service.
// The token carries the user id in "sub" and the role in "role".
func Authenticate(secret string) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	key := []byte(secret)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": log_messages.MissingToken})
			return
		}

		claims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		}); err != nil {
			logger.CtxWarn(c.Request.Context(), "rejected bearer token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": log_messages.InvalidToken})
			return
		}

		caller, ok := callerFromClaims(claims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": log_messages.InvalidToken})
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": log_messages.NotAuthorized})
			return
		}
		if !caller.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": log_messages.AdminOnly})
			return
		}
		c.Next()
	}
}

// CallerFrom returns the identity stored by Authenticate.
func CallerFrom(c *gin.Context) (custom.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return custom.Caller{}, false
	}
	caller, ok := v.(custom.Caller)
	return caller, ok
}

func callerFromClaims(claims jwt.MapClaims) (custom.Caller, bool) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return custom.Caller{}, false
	}
	userID, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		return custom.Caller{}, false
	}
	role, _ := claims["role"].(string)
	if role != consts.RoleAdmin {
		role = consts.RoleUser
	}
	return custom.Caller{UserID: userID, Role: role}, true
}
