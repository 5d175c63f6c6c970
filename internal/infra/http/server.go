package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	srv *http.Server
}

func NewRouter(env string, exposeMetrics bool, h *Handlers) *gin.Engine {
	if env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if exposeMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := r.Group("/v1", RequireIdentity())
	{
		v1.GET("/role", h.getRole)
		v1.POST("/onboarding/role", h.chooseRole)
		v1.POST("/shops", h.createShop)
		v1.GET("/dashboard", h.getDashboard)
		v1.GET("/dashboard/report", h.dailyReport)
	}

	return r
}

func New(addr string, env string, exposeMetrics bool, h *Handlers) *Server {
	return &Server{srv: &http.Server{Addr: addr, Handler: NewRouter(env, exposeMetrics, h)}}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
