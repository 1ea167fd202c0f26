package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/abrar71/swaggerfilesv2"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"auctionhouse/internal/clock"
	"auctionhouse/internal/http/auctionhandler"
	"auctionhouse/internal/http/authhandler"
	"auctionhouse/internal/http/httpresp"
	"auctionhouse/internal/http/middleware"
	"auctionhouse/internal/http/permissionhandler"
	"auctionhouse/internal/http/rolehandler"
	"auctionhouse/internal/http/userhandler"
	"auctionhouse/internal/metrics"
	"auctionhouse/internal/services/auction"
	"auctionhouse/internal/services/auth"
	"auctionhouse/internal/services/authz"
	"auctionhouse/internal/services/permissions"
	"auctionhouse/internal/services/roles"
	"auctionhouse/internal/services/users"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services is everything the router dispatches to.
type Services struct {
	Auth        auth.IAuthService
	Authz       authz.IAuthzService
	Auctions    auction.IAuctionService
	Users       users.IUsersService
	Roles       roles.IRolesService
	Permissions permissions.IPermissionsService
}

type Options struct {
	ListenPort uint16
	DB         Pinger
	Metrics    *metrics.Collector
	Gatherer   prometheus.Gatherer
	Clock      clock.Clock
	CorsOrigin string
	Cookie     authhandler.CookieOptions
	AuthLimit  middleware.RateLimiterConfig
	// TrustedProxies may set X-Forwarded-For; nil trusts none and the
	// client IP is the peer address.
	TrustedProxies []string
	// APISpecsDir holds the generated swagger.json served at /api-specs.
	APISpecsDir string
	Services    Services
}

type httpServer struct {
	opts    Options
	srv     *http.Server
	ln      net.Listener
	limiter *middleware.RateLimiter
	ctx     context.Context
}

func NewHttpServer(ctx context.Context, opts Options) *httpServer {
	if opts.Clock == nil {
		opts.Clock = clock.SystemClock{}
	}
	if opts.APISpecsDir == "" {
		opts.APISpecsDir = "api_specs"
	}
	h := &httpServer{
		opts:    opts,
		limiter: middleware.NewRateLimiter(opts.AuthLimit),
		ctx:     ctx,
	}
	h.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.ListenPort),
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return h
}

// Router assembles the gin engine with every route and middleware.
func (h *httpServer) Router() *gin.Engine {
	routerEngine := gin.New()
	if err := routerEngine.SetTrustedProxies(h.opts.TrustedProxies); err != nil {
		zap.L().Warn("trusted_proxies_invalid", zap.Strings("proxies", h.opts.TrustedProxies), zap.Error(err))
		_ = routerEngine.SetTrustedProxies(nil)
	}

	routerEngine.Use(ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		SkipPaths:  []string{"/healthz", "/metrics"},
	}))
	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))
	routerEngine.Use(middleware.CORS(h.opts.CorsOrigin))
	routerEngine.Use(middleware.RequestTime(h.opts.Clock))
	if h.opts.Metrics != nil {
		routerEngine.Use(middleware.Metrics(h.opts.Metrics))
	}

	// Swagger UI and API specs
	routerEngine.StaticFS("/swagger-apis", http.FS(swaggerfilesv2.FS))
	routerEngine.Static("/api-specs", h.opts.APISpecsDir)

	routerEngine.GET("/healthz", h.healthz)
	if h.opts.Gatherer != nil {
		routerEngine.GET("/metrics", gin.WrapH(metrics.Handler(h.opts.Gatherer)))
	}

	svc := h.opts.Services
	guards := middleware.NewGuards(svc.Auth, svc.Authz)

	authhandler.New(svc.Auth, svc.Users, h.opts.Cookie).Register(routerEngine, guards, h.limiter.Middleware())
	auctionhandler.New(svc.Auctions).Register(routerEngine, guards)
	userhandler.New(svc.Users).Register(routerEngine, guards)
	rolehandler.New(svc.Roles).Register(routerEngine, guards)
	permissionhandler.New(svc.Permissions).Register(routerEngine, guards)

	return routerEngine
}

// @Summary		Health check
// @Tags			Ops
// @Produce		json
// @Success		200	{object}	httpresp.MessageResponse
// @Failure		503	{object}	httpresp.ErrorResponse
// @Router			/healthz [get]
func (h *httpServer) healthz(c *gin.Context) {
	if h.opts.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.opts.DB.PingContext(ctx); err != nil {
			zap.L().Warn("healthz_db_unreachable", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, httpresp.ErrorResponse{
				Status:  http.StatusServiceUnavailable,
				Error:   "unavailable",
				Message: "database unreachable",
			})
			return
		}
	}
	c.JSON(http.StatusOK, httpresp.MessageResponse{Message: "ok"})
}

func (h *httpServer) Start() error {
	var err error
	h.ln, err = net.Listen("tcp", h.srv.Addr)
	if err != nil {
		return err
	}
	zap.L().Info("http_listen", zap.String("addr", h.srv.Addr))

	if err := h.srv.Serve(h.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in-flight requests to finish.
func (h *httpServer) Dispose() error {
	defer h.limiter.Stop()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(h.ctx), 10*time.Second)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		zap.L().Error("http_dispose", zap.Error(errors.New("shutdown timed out")))
	}
	return nil
}
