package auth

import (
	"context"
	"errors"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/aklinic/internal/models"
)

const ContextIdentity = "identity"

// ErrUnauthorized is returned for every access failure. Callers cannot tell
// a missing session from a role mismatch.
var ErrUnauthorized = errors.New("unauthorized")

type UserFinder interface {
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
}

// Guard is the single authority for protected paths: the token must verify
// and the user must still exist with the role it currently holds.
type Guard struct {
	codec   *Codec
	cookies CookieGateway
	users   UserFinder
}

func NewGuard(codec *Codec, cookies CookieGateway, users UserFinder) *Guard {
	return &Guard{codec: codec, cookies: cookies, users: users}
}

func (g *Guard) Codec() *Codec {
	return g.codec
}

func (g *Guard) Cookies() CookieGateway {
	return g.cookies
}

// ResolveCurrentUser verifies the cookie token and re-reads the user. The
// returned identity reflects the stored row, not the token claims.
func (g *Guard) ResolveCurrentUser(c *gin.Context) (*Identity, bool) {
	claims, err := g.codec.Verify(g.cookies.Token(c))
	if err != nil {
		return nil, false
	}

	user, err := g.users.FindUserByID(c.Request.Context(), claims.ID)
	if err != nil || user == nil {
		return nil, false
	}

	id := IdentityOf(user)
	return &id, true
}

func (g *Guard) RequireRole(c *gin.Context, roles ...models.Role) (*Identity, error) {
	id, ok := g.ResolveCurrentUser(c)
	if !ok || !slices.Contains(roles, id.Role) {
		return nil, ErrUnauthorized
	}
	c.Set(ContextIdentity, id)
	return id, nil
}

// CurrentIdentity returns the identity stored by RequireRole.
func CurrentIdentity(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return nil, false
	}
	id, ok := v.(*Identity)
	return id, ok
}
