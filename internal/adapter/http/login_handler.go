package http

import (
	"net/http"
	"time"

	"github.com/ADRIANPANEL/Web-order-adrian/configs"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const sessionCookie = "admin_token"

type LoginHandler struct {
	cfg configs.Config
}

func NewLoginHandler(cfg configs.Config) *LoginHandler {
	return &LoginHandler{cfg: cfg}
}

type loginReq struct {
	U string `json:"u" form:"u"`
	P string `json:"p" form:"p"`
}

// Login checks the configured admin account and, on success, sets a signed
// session token cookie. POST /admin/login, fields u / p (form or JSON).
func (h *LoginHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBind(&req); err != nil || req.U == "" {
		c.String(http.StatusUnauthorized, "unauthorized")
		return
	}

	if req.U != h.cfg.Admin.Username || req.P != h.cfg.Admin.Password {
		c.String(http.StatusUnauthorized, "unauthorized")
		return
	}

	ttl := h.cfg.Security.TTL
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": h.cfg.Security.Issuer,
		"aud": h.cfg.Security.Audience,
		"sub": req.U,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.Security.JWTSecret))
	if err != nil {
		c.String(http.StatusInternalServerError, "error")
		return
	}

	c.SetCookie(sessionCookie, signed, int(ttl.Seconds()), "/", "", false, true)
	c.String(http.StatusOK, "ok")
}

// Logout clears the session cookie and sends the admin back to the login UI.
func (h *LoginHandler) Logout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/public/admin.html")
}
