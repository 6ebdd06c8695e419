package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserHandler serves accounts and subscriptions.
type UserHandler struct {
	users     service.IUserService
	follows   service.IFollowService
	presenter *service.Presenter
	auth      middleware.TokenValidator
	pageSize  int
}

// NewUserHandler creates a UserHandler
func NewUserHandler(users service.IUserService, follows service.IFollowService, presenter *service.Presenter, auth middleware.TokenValidator, pageSize int) *UserHandler {
	return &UserHandler{
		users:     users,
		follows:   follows,
		presenter: presenter,
		auth:      auth,
		pageSize:  pageSize,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	required := middleware.AuthMiddleware(h.auth)
	optional := middleware.OptionalAuth(h.auth)

	users := router.Group("/users")
	{
		users.POST("/", h.Register)
		users.GET("/", optional, h.ListUsers)
		users.GET("/me/", required, h.Me)
		users.POST("/set_password/", required, h.SetPassword)
		users.GET("/subscriptions/", required, h.Subscriptions)
		users.GET("/:id/", optional, h.GetUser)
		users.POST("/:id/subscribe/", required, h.Subscribe)
		users.DELETE("/:id/subscribe/", required, h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"email":      user.Email,
		"id":         user.ID,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	viewer, err := currentUser(c, h.users)
	if err != nil {
		respondError(c, err)
		return
	}
	page, ok := pagination(c, h.pageSize)
	if !ok {
		return
	}
	users, total, err := h.users.ListUsers(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.presenter.Users(c.Request.Context(), viewer, users)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(c, page, total, out))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	viewer, err := currentUser(c, h.users)
	if err != nil {
		respondError(c, err)
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.presenter.User(c.Request.Context(), viewer, user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Me(c *gin.Context) {
	user, ok := requireUser(c, h.users)
	if !ok {
		return
	}
	out, err := h.presenter.User(c.Request.Context(), user, user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	user, ok := requireUser(c, h.users)
	if !ok {
		return
	}
	var req types.SetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.users.SetPassword(c.Request.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	user, ok := requireUser(c, h.users)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "recipes_limit", 0)
	if !ok {
		return
	}
	sub, err := h.follows.Follow(c.Request.Context(), user, id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	user, ok := requireUser(c, h.users)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.follows.Unfollow(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	user, ok := requireUser(c, h.users)
	if !ok {
		return
	}
	page, ok := pagination(c, h.pageSize)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "recipes_limit", 0)
	if !ok {
		return
	}
	subs, total, err := h.follows.Subscriptions(c.Request.Context(), user, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(c, page, total, subs))
}
