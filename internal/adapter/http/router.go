package http

import (
	"github.com/ADRIANPANEL/Web-order-adrian/configs"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/adapter/http/middleware"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(cfg configs.Config, h *OrderHandler, ah *AdminHandler, lh *LoginHandler, authz *middleware.Authz) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())
	r.Use(middleware.Logging(logging.New("http")))

	// proof uploads above this spill to disk before the size check runs
	r.MaxMultipartMemory = 8 << 20

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// static collaborators: public UI and the stored proof files
	r.Static("/public", cfg.Storage.PublicDir)
	r.Static("/uploads", cfg.Storage.UploadDir)
	r.GET("/", func(c *gin.Context) {
		c.Redirect(302, "/public/index.html")
	})

	r.POST("/api/order", h.SubmitOrder)

	admin := r.Group("/admin")
	{
		admin.POST("/login", lh.Login)
		admin.GET("/logout", lh.Logout)
		admin.GET("/orders", authz.Require(), ah.ListOrders)
		admin.POST("/order/:id/status", authz.Require(), ah.UpdateStatus)
	}

	return r
}
