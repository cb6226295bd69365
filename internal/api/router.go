package api

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"kiosk-admin-console/internal/mw"
)

// RouterOptions configures rate limiting and CORS.
type RouterOptions struct {
	// RateLimit and Burst bound login and mutation requests per client IP.
	RateLimit   rate.Limit
	Burst       int
	CORSOrigins []string
}

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(h.Views.Template())
	r.Use(mw.CORS("/api/", opts.CORSOrigins))

	limiter := mw.RateLimit(mw.NewLimiter(opts.RateLimit, opts.Burst))
	authed := h.Auth.Middleware()

	r.GET("/healthz", h.Healthz)
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	r.GET("/login", h.LoginPage)
	r.POST("/login", limiter, h.Login)
	r.POST("/logout", h.Logout)
	r.GET("/", authed, h.Home)

	ui := r.Group("/ui", authed)
	{
		ui.GET("/:resource", h.ListPage)
		ui.GET("/:resource/ws", h.LiveSession)
		ui.POST("/:resource/columns", h.ToggleColumn)
		ui.POST("/:resource/refresh", h.Refresh)
		ui.GET("/:resource/export.pdf", h.Export)

		ui.GET("/:resource/new", h.FormPage)
		ui.POST("/:resource/new", limiter, h.SubmitForm)
		ui.GET("/:resource/:id", h.DetailPage)
		ui.GET("/:resource/:id/edit", h.FormPage)
		ui.POST("/:resource/:id/edit", limiter, h.SubmitForm)
		ui.POST("/:resource/:id/delete", limiter, h.Delete)

		// Only the workflows resource has a builder.
		ui.GET("/:resource/builder", h.WorkflowBuilder)
		ui.POST("/:resource/builder", limiter, h.SubmitWorkflowBuilder)
	}

	r.GET("/api/vapid_public_key", h.GetVAPIDPublicKey)
	api := r.Group("/api", authed)
	{
		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/:resource", h.ListJSON)
	}

	return r
}
