package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const CookieName = "aklinic_token"

// CookieGateway moves the session token in and out of the HTTP cookie.
type CookieGateway struct {
	Secure bool
}

func (g CookieGateway) Set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(SessionTTL.Seconds()), "/", "", g.Secure, true)
}

func (g CookieGateway) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", g.Secure, true)
}

func (g CookieGateway) Token(c *gin.Context) string {
	v, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return v
}
