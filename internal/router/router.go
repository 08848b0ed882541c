package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/dlservice-api/internal/handler"
	internalmiddleware "github.com/noah-isme/dlservice-api/internal/middleware"
	"github.com/noah-isme/dlservice-api/internal/service"
	"github.com/noah-isme/dlservice-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/dlservice-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/dlservice-api/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler mounted by the router.
type Handlers struct {
	Auth          *handler.AuthHandler
	License       *handler.LicenseHandler
	ChangeDetails *handler.ChangeDetailsHandler
	Status        *handler.StatusHandler
	Payment       *handler.PaymentHandler
	Home          *handler.HomeHandler
	Document      *handler.DocumentHandler
	Metrics       *handler.MetricsHandler
}

// Options carries the cross-cutting pieces the router needs.
type Options struct {
	Logger         *zap.Logger
	Metrics        *service.MetricsService
	Sessions       internalmiddleware.TokenValidator
	CookieName     string
	AllowedOrigins []string
	AuthLimiter    *internalmiddleware.RateLimiter
	EnableDocs     bool
}

// New builds the portal engine.
func New(h Handlers, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(opts.Metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	public := r.Group("")
	if opts.AuthLimiter != nil {
		public.Use(opts.AuthLimiter.Middleware())
	}
	public.GET("/login", h.Auth.LoginForm)
	public.POST("/login", h.Auth.Login)
	public.GET("/signup", h.Auth.SignupForm)
	public.POST("/signup", h.Auth.Signup)

	portal := r.Group("")
	portal.Use(internalmiddleware.Session(opts.Sessions, opts.CookieName))
	{
		portal.GET("/logout", h.Auth.Logout)
		portal.POST("/logout", h.Auth.Logout)

		portal.GET("/", func(c *gin.Context) { c.Redirect(http.StatusSeeOther, "/home") })
		portal.GET("/home", h.Home.Home)
		portal.GET("/history/export", h.Home.ExportHistory)

		portal.GET("/learning-license", h.License.LearningForm)
		portal.POST("/learning-license", h.License.SubmitLearning)
		portal.GET("/driving-license", h.License.DrivingForm)
		portal.POST("/driving-license", h.License.SubmitDriving)
		portal.GET("/renew-license", h.License.RenewalForm)
		portal.POST("/renew-license", h.License.SubmitRenewal)

		portal.GET("/change-details", h.ChangeDetails.Form)
		portal.POST("/change-details", h.ChangeDetails.Apply)
		portal.POST("/change-details/verify", h.ChangeDetails.Verify)
		portal.GET("/change-details/:licenseNumber/history", h.ChangeDetails.History)

		portal.GET("/application-status", h.Status.Check)
		portal.POST("/application-status", h.Status.Check)
		portal.GET("/check-rc", h.Status.CheckRC)

		portal.GET("/payment/receipts/:id", h.Payment.Receipt)
		portal.GET("/payment/:licenseType", h.Payment.Quote)
		portal.POST("/payment/:licenseType", h.Payment.Process)

		portal.GET("/documents/download", h.Document.Download)
		portal.GET("/documents/:applicationId/link", h.Document.Link)
	}

	return r
}
