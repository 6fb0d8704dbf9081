package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/aimhigh31/work-ten-sub005/internal/console/service"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Logger logs every request once it completes.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.Duration("latency", latency),
			zap.String("request_id", c.GetString("request_id")),
		}

		if userID, exists := c.Get("user_id"); exists {
			fields = append(fields, zap.String("user_id", userID.(string)))
		}

		if status >= 500 {
			logger.Error("Server error", fields...)
		} else if status >= 400 {
			logger.Warn("Client error", fields...)
		} else {
			logger.Info("Request", fields...)
		}
	}
}

// RequestID tags each request, honoring an inbound X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// JWTClaims are the console session claims.
type JWTClaims struct {
	UserID   string   `json:"uid"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	TeamName string   `json:"team"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// JWTAuth validates the bearer token and stores the session identity on the
// context.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// query param fallback for download links
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40100,
				"message": "Authorization is required",
			})
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})

		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40102,
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
			c.Set("user_id", claims.UserID)
			c.Set("user_name", claims.Name)
			c.Set("user_email", claims.Email)
			c.Set("team_name", claims.TeamName)
			c.Set("roles", claims.Roles)
			c.Set("claims", claims)
			c.Next()
		} else {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40103,
				"message": "Invalid token claims",
			})
			c.Abort()
			return
		}
	}
}

func contextRoles(c *gin.Context) []string {
	if v, ok := c.Get("roles"); ok {
		if roles, ok := v.([]string); ok {
			return roles
		}
	}
	return nil
}

// RequireRead gates a route group on the read capability for routeKey.
func RequireRead(perms *service.PermissionService, routeKey string) gin.HandlerFunc {
	return requireCapability(perms, routeKey, func(g service.Capability) bool { return g.CanRead })
}

// RequireWrite gates mutations on the write capability for routeKey.
func RequireWrite(perms *service.PermissionService, routeKey string) gin.HandlerFunc {
	return requireCapability(perms, routeKey, func(g service.Capability) bool { return g.CanWrite })
}

// RequireFull gates admin surfaces on the full capability for routeKey.
func RequireFull(perms *service.PermissionService, routeKey string) gin.HandlerFunc {
	return requireCapability(perms, routeKey, func(g service.Capability) bool { return g.CanFull })
}

func requireCapability(perms *service.PermissionService, routeKey string, allowed func(service.Capability) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		grant, err := perms.Resolve(c.Request.Context(), routeKey, contextRoles(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    50000,
				"message": "권한 조회 실패: " + err.Error(),
			})
			c.Abort()
			return
		}
		if !allowed(grant) {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    40300,
				"message": "접근 권한이 없습니다: " + routeKey,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
