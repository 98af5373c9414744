package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/subwise/subwise/docs"
	"github.com/subwise/subwise/internal/app/api/handlers"
	mw "github.com/subwise/subwise/internal/app/api/middleware"
	alertsvc "github.com/subwise/subwise/internal/app/service/alert"
	detectorsvc "github.com/subwise/subwise/internal/app/service/detector"
	insightsvc "github.com/subwise/subwise/internal/app/service/insights"
	negsvc "github.com/subwise/subwise/internal/app/service/negotiation"
	paysvc "github.com/subwise/subwise/internal/app/service/payment"
	subsvc "github.com/subwise/subwise/internal/app/service/subscription"
	usersvc "github.com/subwise/subwise/internal/app/service/user"
	cfgpkg "github.com/subwise/subwise/pkg/config"
	metrics "github.com/subwise/subwise/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Request tracing only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

type routeDeps struct {
	fx.In

	Log           *zap.SugaredLogger
	Cfg           *cfgpkg.Config
	Users         *usersvc.Service
	Subscriptions *subsvc.Service
	Negotiations  *negsvc.Service
	Alerts        *alertsvc.Service
	Detector      *detectorsvc.Service
	Insights      *insightsvc.Service
	Payments      *paysvc.Service
}

func registerRoutes(r *gin.Engine, deps routeDeps) {
	log := deps.Log

	// Prometheus metrics
	if deps.Cfg != nil && deps.Cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(deps.Cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", deps.Cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())

	handlers.RegisterUserRoutes(api, deps.Users)
	handlers.RegisterSubscriptionRoutes(api, deps.Subscriptions)
	handlers.RegisterNegotiationRoutes(api, deps.Negotiations)
	handlers.RegisterAlertRoutes(api, deps.Alerts)
	handlers.RegisterCurrencyRoutes(api)
	handlers.RegisterDetectionRoutes(api, deps.Users, deps.Detector)
	handlers.RegisterInsightRoutes(api, deps.Insights)
	handlers.RegisterPaymentRoutes(api, deps.Users, deps.Payments, log)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
