package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RecipeHandler serves recipes and the per-user favorite and cart lists.
type RecipeHandler struct {
	recipes   service.IRecipeService
	catalog   service.ICatalogService
	favorites service.IRecipeListService
	cart      service.IRecipeListService
	shopping  service.IShoppingListService
	users     service.IUserService
	presenter *service.Presenter
	auth      middleware.TokenValidator
	limiter   *middleware.RateLimiter
	pageSize  int
}

// NewRecipeHandler creates a RecipeHandler. limiter may be nil.
func NewRecipeHandler(
	recipes service.IRecipeService,
	catalog service.ICatalogService,
	favorites service.IRecipeListService,
	cart service.IRecipeListService,
	shopping service.IShoppingListService,
	users service.IUserService,
	presenter *service.Presenter,
	auth middleware.TokenValidator,
	limiter *middleware.RateLimiter,
	pageSize int,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		catalog:   catalog,
		favorites: favorites,
		cart:      cart,
		shopping:  shopping,
		users:     users,
		presenter: presenter,
		auth:      auth,
		limiter:   limiter,
		pageSize:  pageSize,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	required := middleware.AuthMiddleware(h.auth)
	optional := middleware.OptionalAuth(h.auth)

	recipes := router.Group("/recipes")
	{
		recipes.GET("/", optional, h.ListRecipes)
		recipes.POST("/", required, h.limiter.RateLimitMiddleware(), h.CreateRecipe)
		recipes.GET("/download_shopping_cart/", required, h.DownloadShoppingCart)
		recipes.GET("/:id/", optional, h.GetRecipe)
		recipes.PATCH("/:id/", required, h.UpdateRecipe)
		recipes.PUT("/:id/", required, h.UpdateRecipe)
		recipes.DELETE("/:id/", required, h.DeleteRecipe)
		recipes.POST("/:id/favorite/", required, h.addTo(h.favorites))
		recipes.DELETE("/:id/favorite/", required, h.removeFrom(h.favorites))
		recipes.POST("/:id/shopping_cart/", required, h.addTo(h.cart))
		recipes.DELETE("/:id/shopping_cart/", required, h.removeFrom(h.cart))
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewer, err := currentUser(c, h.users)
	if err != nil {
		respondError(c, err)
		return
	}
	page, ok := pagination(c, h.pageSize)
	if !ok {
		return
	}
	author, ok := intQuery(c, "author", 0)
	if !ok {
		return
	}
	slugs, ok := h.tagSlugs(c)
	if !ok {
		return
	}
	filter := types.RecipeFilter{
		AuthorID:         uint(author),
		TagSlugs:         slugs,
		IsFavorited:      boolQuery(c, "is_favorited"),
		IsInShoppingCart: boolQuery(c, "is_in_shopping_cart"),
	}

	recipes, total, err := h.recipes.ListRecipes(c.Request.Context(), viewer, filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.presenter.Recipes(c.Request.Context(), viewer, recipes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(c, page, total, out))
}

// tagSlugs reads the repeatable ?tags= filter. Every slug must name a tag.
func (h *RecipeHandler) tagSlugs(c *gin.Context) ([]string, bool) {
	var slugs []string
	seen := make(map[string]bool)
	for _, slug := range c.QueryArray("tags") {
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		if _, err := h.catalog.GetTagBySlug(c.Request.Context(), slug); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				err = &service.ValidationError{Field: "tags", Message: fmt.Sprintf("select a valid choice, %s is not one of the available choices", slug)}
			}
			respondError(c, err)
			return nil, false
		}
		slugs = append(slugs, slug)
	}
	return slugs, true
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	viewer, err := currentUser(c, h.users)
	if err != nil {
		respondError(c, err)
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, http.StatusOK, viewer, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	user, ok := requireUser(c, h.users)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), user, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, http.StatusCreated, user, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	user, ok := requireUser(c, h.users)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), user, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, http.StatusOK, user, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	user, ok := requireUser(c, h.users)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// addTo returns the POST handler for one recipe list.
func (h *RecipeHandler) addTo(list service.IRecipeListService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := requireUser(c, h.users)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		summary, err := list.Add(c.Request.Context(), user, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, summary)
	}
}

// removeFrom returns the DELETE handler for one recipe list.
func (h *RecipeHandler) removeFrom(list service.IRecipeListService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := requireUser(c, h.users)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := list.Remove(c.Request.Context(), user, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	user, ok := requireUser(c, h.users)
	if !ok {
		return
	}
	report, err := h.shopping.Render(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=shopping_cart.txt")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report))
}

func (h *RecipeHandler) render(c *gin.Context, status int, viewer *models.User, recipe *models.Recipe) {
	out, err := h.presenter.Recipe(c.Request.Context(), viewer, recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, out)
}
