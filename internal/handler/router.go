package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"bay-scheduler/internal/handler/api"
	"bay-scheduler/internal/handler/middleware"
	"bay-scheduler/internal/infra/metrics"
	"bay-scheduler/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	schedulingHandler *api.SchedulingHandler,
	bookingHandler *api.BookingHandler,
	recorder *metrics.Recorder,
) {
	setupMiddleware(engine, cfg, recorder)
	setupRoutes(engine, schedulingHandler, bookingHandler, recorder)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, recorder *metrics.Recorder) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log, recorder))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, schedulingHandler *api.SchedulingHandler, bookingHandler *api.BookingHandler, recorder *metrics.Recorder) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(recorder.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/resources", Handler: schedulingHandler.ListResources},
			{Method: http.MethodGet, Path: "/resources/:id/slots", Handler: schedulingHandler.GenerateSlots},
			{Method: http.MethodPost, Path: "/availability", Handler: schedulingHandler.CheckAvailability},
			{Method: http.MethodPost, Path: "/resolutions", Handler: bookingHandler.ApplyResolution},
		})

		scheduling := apiGroup.Group("/scheduling")
		{
			addRoutes(scheduling, []route{
				{Method: http.MethodPost, Path: "/resolve", Handler: schedulingHandler.ResolveConflict},
				{Method: http.MethodPost, Path: "/suggest", Handler: schedulingHandler.SuggestSlots},
			})
		}

		bookings := apiGroup.Group("/bookings")
		{
			addRoutes(bookings, []route{
				{Method: http.MethodGet, Path: "", Handler: bookingHandler.List},
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.Create},
				{Method: http.MethodPost, Path: "/force", Handler: bookingHandler.Force},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.Get},
				{Method: http.MethodPatch, Path: "/:id/window", Handler: bookingHandler.Move},
				{Method: http.MethodPost, Path: "/:id/status", Handler: bookingHandler.TransitionStatus},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
