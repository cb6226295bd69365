package api

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"kiosk-admin-console/internal/auth"
	"kiosk-admin-console/internal/cache"
	"kiosk-admin-console/internal/dialog"
	"kiosk-admin-console/internal/live"
	"kiosk-admin-console/internal/notification"
	"kiosk-admin-console/internal/resource"
	"kiosk-admin-console/internal/store"
	"kiosk-admin-console/internal/upstream"
)

// Deps are the collaborators of the HTTP handlers. Cache, Alerts, Live and
// Metrics are optional.
type Deps struct {
	Screens    *resource.Registry
	Dialogs    resource.Dialogs
	Client     *upstream.Client
	Cache      *cache.Cache
	Store      store.Store
	Auth       *auth.Manager
	Toaster    *notification.Toaster
	Alerts     dialog.Dispatcher
	Live       *live.Manager
	Views      *Views
	Validator  *dialog.Validator
	WebPush    *webpush.Options
	ExportFont string
	Metrics    http.Handler
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	Deps
	upgrader websocket.Upgrader
	now      func() time.Time
}

// NewHandler creates a new HTTP handler set.
func NewHandler(d Deps) *Handler {
	if d.Validator == nil {
		d.Validator = dialog.NewValidator()
	}
	return &Handler{
		Deps: d,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		now: time.Now,
	}
}

// screen resolves the :resource parameter, answering 404 when unknown.
func (h *Handler) screen(c *gin.Context) (resource.Screen, bool) {
	s, ok := h.Screens.Lookup(c.Param("resource"))
	if !ok {
		h.notFound(c)
		return nil, false
	}
	return s, true
}

func (h *Handler) notFound(c *gin.Context) {
	if isAPI(c) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy"})
		return
	}
	c.HTML(http.StatusNotFound, "error", h.page(c, "Không tìm thấy trang", ""))
	c.Abort()
}

// page fills the shared page data and drains the session's toasts.
func (h *Handler) page(c *gin.Context, title, active string) page {
	p := page{Title: title, Active: active}
	s := auth.FromContext(c)
	if s == nil {
		return p
	}
	p.User = s.DisplayName()
	for _, screen := range h.Screens.All() {
		info := screen.Info()
		p.Nav = append(p.Nav, navItem{Name: info.Name, Title: info.Title, URL: info.BasePath()})
	}
	p.Toasts = h.Toaster.Drain(s.ID)
	return p
}

// hooks are the side effects of a dialog submitted by the current operator.
func (h *Handler) hooks(c *gin.Context, info resource.Info) (success, failure []dialog.Hook) {
	if h.Cache != nil {
		success = append(success, dialog.Revalidate(h.Cache, info.Revalidates...))
	}
	if h.Store != nil {
		success = append(success, dialog.Audit(h.Store))
		failure = append(failure, dialog.Audit(h.Store))
	}
	if h.Alerts != nil {
		success = append(success, dialog.Dispatch(h.Alerts))
	}
	notify := dialog.Notify(h.notifier(c), info.Noun)
	return append(success, notify), append(failure, notify)
}

func (h *Handler) notifier(c *gin.Context) dialog.Notifier {
	sid := sessionID(c)
	return func(title, description string, failed bool) {
		if failed {
			h.Toaster.Error(sid, title, description)
			return
		}
		h.Toaster.Success(sid, title, description)
	}
}

func sessionID(c *gin.Context) string {
	if s := auth.FromContext(c); s != nil {
		return s.ID
	}
	return ""
}

func actor(c *gin.Context) string {
	if s := auth.FromContext(c); s != nil {
		return s.UserID()
	}
	return ""
}

// backTo redirects to the list page, keeping the posted query state.
func backTo(c *gin.Context, info resource.Info) {
	target := info.BasePath()
	if q := c.PostForm("query"); q != "" {
		target += "?" + q
	}
	c.Redirect(http.StatusSeeOther, target)
}

func isAPI(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if h.Live != nil {
		body["liveSessions"] = h.Live.Open()
	}
	c.JSON(http.StatusOK, body)
}

func logError(what string, err error) {
	log.Printf("api: %s: %v", what, err)
}
