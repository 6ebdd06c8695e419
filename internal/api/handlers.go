package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	DB          *gorm.DB
	Images      service.ImageStore
	Blacklist   *service.TokenBlacklist
	RateLimiter *middleware.RateLimiter
	JWTSecret   string
	TokenTTL    time.Duration
	PageSize    int
}

// HealthCheck reports whether the API and its database are reachable
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.HealthCheck(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

// RegisterRoutes wires services and handlers under the /api group.
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", HealthCheck(deps.DB))

	authService := service.NewAuthService(deps.DB, deps.JWTSecret, deps.TokenTTL, deps.Blacklist)
	userService := service.NewUserService(deps.DB)
	presenter := service.NewPresenter(deps.DB)
	catalog := service.NewCatalogService(deps.DB)

	handlers := []interface{ RegisterRoutes(*gin.RouterGroup) }{
		NewAuthHandler(authService),
		NewUserHandler(userService, service.NewFollowService(deps.DB), presenter, authService, deps.PageSize),
		NewCatalogHandler(catalog),
		NewRecipeHandler(
			service.NewRecipeService(deps.DB, deps.Images),
			catalog,
			service.NewRecipeListService(deps.DB, service.Favorites),
			service.NewRecipeListService(deps.DB, service.ShoppingCart),
			service.NewShoppingListService(deps.DB),
			userService,
			presenter,
			authService,
			deps.RateLimiter,
			deps.PageSize,
		),
	}

	group := router.Group("/api")
	for _, h := range handlers {
		h.RegisterRoutes(group)
	}
}
