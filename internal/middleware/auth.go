package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/aklinic/internal/auth"
	"github.com/BruksfildServices01/aklinic/internal/httperr"
	"github.com/BruksfildServices01/aklinic/internal/models"
)

// PageRule maps a path prefix to the roles allowed to open it.
type PageRule struct {
	Prefix string
	Roles  []models.Role
}

// Matches compares whole path segments: /admin guards /admin and
// /admin/dashboard but not /administrator.
func (r PageRule) Matches(path string) bool {
	return path == r.Prefix || strings.HasPrefix(path, r.Prefix+"/")
}

// DefaultPageRules guards the staff pages. Paths outside these prefixes
// are public.
func DefaultPageRules() []PageRule {
	return []PageRule{
		{Prefix: "/reception", Roles: []models.Role{models.RoleReception, models.RoleAdmin}},
		{Prefix: "/doctor", Roles: []models.Role{models.RoleDoctor}},
		{Prefix: "/admin", Roles: []models.Role{models.RoleAdmin}},
	}
}

// Gatekeeper redirects to /login when a guarded page is opened without a
// session carrying one of the rule's roles.
func Gatekeeper(guard *auth.Guard, rules []PageRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, rule := range rules {
			if !rule.Matches(path) {
				continue
			}
			if _, err := guard.RequireRole(c, rule.Roles...); err != nil {
				c.Redirect(http.StatusFound, "/login")
				c.Abort()
				return
			}
			break
		}

		c.Next()
	}
}

// RequireRole guards JSON endpoints with the uniform 401 body.
func RequireRole(guard *auth.Guard, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := guard.RequireRole(c, roles...); err != nil {
			httperr.AbortUnauthorized(c)
			return
		}
		c.Next()
	}
}

// AnyStaff admits every known role.
func AnyStaff(guard *auth.Guard) gin.HandlerFunc {
	return RequireRole(guard, models.RoleAdmin, models.RoleDoctor, models.RoleReception)
}
