package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rfpworks/rfpserver/internal/model"
	"github.com/rfpworks/rfpserver/internal/pkg/jwt"
)

const (
	ContextKeyUser      = "user"
	ContextKeyUserID    = "user_id"
	ContextKeyRole      = "role"
	ContextKeyCompanyID = "company_id"
)

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, Accept-Language")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

type AuthMiddleware struct {
	jwtManager *jwt.Manager
	db         *gorm.DB
}

func NewAuthMiddleware(jwtManager *jwt.Manager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, db: db}
}

// JWTAuth validates the Bearer token and loads the employee record. The
// employee's company id always comes from the database row, never from
// client-supplied data.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		tokenString := authHeader[7:]

		claims, err := m.jwtManager.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		var employee model.Employee
		if err := m.db.Where("id = ? AND is_active = true AND deleted_at IS NULL", claims.UserID).First(&employee).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		c.Set(ContextKeyUser, &employee)
		c.Set(ContextKeyUserID, employee.ID)
		c.Set(ContextKeyRole, employee.Role)
		c.Set(ContextKeyCompanyID, employee.CompanyID)
		c.Next()
	}
}

// CompanyRequired rejects requests whose authenticated user carries no
// tenant. Super admins operating outside a tenant are stopped here.
func CompanyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetCompanyID(c) == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Company context required"})
			return
		}
		c.Next()
	}
}

// RequireRole allows the request through only for the listed roles.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, _ := c.Get(ContextKeyRole)
		role, ok := current.(model.Role)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		for _, allowed := range roles {
			if role == allowed || role == model.RoleSuperAdmin {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// GetCompanyID extracts the tenant id from the request context.
func GetCompanyID(c *gin.Context) uuid.UUID {
	value, exists := c.Get(ContextKeyCompanyID)
	if !exists {
		return uuid.Nil
	}
	id, _ := value.(uuid.UUID)
	return id
}

// GetUserID extracts the authenticated employee id from the context.
func GetUserID(c *gin.Context) uuid.UUID {
	value, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil
	}
	id, _ := value.(uuid.UUID)
	return id
}

// GetEmployee extracts the full employee record from the context.
func GetEmployee(c *gin.Context) *model.Employee {
	value, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	employee, _ := value.(*model.Employee)
	return employee
}
