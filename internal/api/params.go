package api

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const maxPageSize = 100

// currentUser returns the authenticated principal, or nil for anonymous
// requests. A token whose user no longer exists is rejected.
func currentUser(c *gin.Context, users service.IUserService) (*models.User, error) {
	raw, ok := c.Get("user_id")
	if !ok {
		return nil, nil
	}
	id, ok := raw.(uint)
	if !ok {
		return nil, service.ErrInvalidToken
	}
	user, err := users.GetUser(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		return nil, service.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// requireUser is currentUser for routes behind AuthMiddleware; it answers
// the error itself when no principal can be resolved.
func requireUser(c *gin.Context, users service.IUserService) (*models.User, bool) {
	user, err := currentUser(c, users)
	if err == nil && user == nil {
		err = service.ErrInvalidToken
	}
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return user, true
}

// idParam parses the :id path segment. A malformed id is reported as not found.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, service.ErrNotFound)
		return 0, false
	}
	return uint(id), true
}

// intQuery parses an optional non-negative integer query parameter.
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		respondError(c, &service.ValidationError{Field: name, Message: "a non-negative integer is required"})
		return 0, false
	}
	return value, true
}

// boolQuery reports whether a flag query parameter is set to 1 or true.
func boolQuery(c *gin.Context, name string) bool {
	switch c.Query(name) {
	case "1", "true", "True":
		return true
	}
	return false
}

// pagination reads page and limit, defaulting limit to pageSize.
func pagination(c *gin.Context, pageSize int) (types.Pagination, bool) {
	page, ok := intQuery(c, "page", 1)
	if !ok {
		return types.Pagination{}, false
	}
	limit, ok := intQuery(c, "limit", pageSize)
	if !ok {
		return types.Pagination{}, false
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = pageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return types.Pagination{Page: page, Limit: limit}, true
}

// paginated wraps results with the total count and neighbouring page links.
func paginated[T any](c *gin.Context, page types.Pagination, total int64, results []T) types.Page[T] {
	if results == nil {
		results = []T{}
	}
	out := types.Page[T]{Count: total, Results: results}
	if page.HasNext(total) {
		out.Next = pageURL(c, page.Page+1)
	}
	if page.Page > 1 {
		out.Previous = pageURL(c, page.Page-1)
	}
	return out
}

func pageURL(c *gin.Context, page int) *string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	query := c.Request.URL.Query()
	query.Set("page", strconv.Itoa(page))
	u := url.URL{Scheme: scheme, Host: c.Request.Host, Path: c.Request.URL.Path, RawQuery: query.Encode()}
	link := u.String()
	return &link
}
