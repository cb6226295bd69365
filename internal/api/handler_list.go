package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kiosk-admin-console/internal/export"
	"kiosk-admin-console/internal/query"
	"kiosk-admin-console/internal/resource"
	"kiosk-admin-console/internal/table"
	"kiosk-admin-console/internal/upstream"
)

// state restores the query state of screen from the request URL.
func state(c *gin.Context, screen resource.Screen) *query.State {
	return query.FromValues(screen.Defaults(), c.Request.URL.Query())
}

// visibility loads the operator's hidden columns of screen.
func (h *Handler) visibility(c *gin.Context, screen resource.Screen) table.Visibility {
	if h.Store == nil {
		return table.Visibility{}
	}
	hidden, err := h.Store.ViewPreference(c.Request.Context(), actor(c), screen.Info().Name)
	if err != nil {
		logError("load view preference", err)
		return table.Visibility{}
	}
	return table.NewVisibility(hidden)
}

// ListPage renders a list screen with its first page.
func (h *Handler) ListPage(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	info := screen.Info()
	st := state(c, screen)
	vis := h.visibility(c, screen)

	res, err := screen.Fetch(c.Request.Context(), st)
	if err != nil {
		logError("list "+info.Name, err)
		h.Toaster.Error(sessionID(c), "Lỗi tải dữ liệu", upstream.Message(err))
	}

	filters := make([]filterView, 0, len(info.Filters))
	for _, f := range info.Filters {
		filters = append(filters, filterView{Column: f.Column, Label: f.Label, Options: f.Options, Value: st.Filter(f.Column)})
	}

	q := st.Encode()
	exportURL := info.BasePath() + "/export.pdf"
	if q != "" {
		exportURL += "?" + q
	}
	c.HTML(http.StatusOK, "list", listPage{
		page:      h.page(c, info.Title, info.Name),
		Info:      info,
		Table:     tableView{Info: info, Grid: screen.Build(res, st, vis), Query: q},
		Search:    st.Search(),
		Status:    st.Status(),
		Filters:   filters,
		Query:     q,
		WSURL:     info.BasePath() + "/ws",
		ExportURL: exportURL,
	})
}

// DetailPage shows one record read-only.
func (h *Handler) DetailPage(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	info := screen.Info()
	detailer, ok := screen.(resource.Detailer)
	if !ok || !info.Viewable {
		h.notFound(c)
		return
	}
	d, err := detailer.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		logError("open "+info.Name+" detail", err)
		h.Toaster.Error(sessionID(c), "Lỗi tải dữ liệu", upstream.Message(err))
		c.Redirect(http.StatusSeeOther, info.BasePath())
		return
	}
	c.HTML(http.StatusOK, "detail", detailPage{page: h.page(c, "Chi tiết "+info.Noun, info.Name), Info: info, Detail: d})
}

// LiveSession upgrades to a websocket and runs a live session on it.
func (h *Handler) LiveSession(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	st := state(c, screen)
	vis := h.visibility(c, screen)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logError("websocket upgrade", err)
		return
	}
	h.Live.Serve(c.Request.Context(), conn, screen, st, vis, actor(c))
}

// ToggleColumn flips the visibility of one column and stores it.
func (h *Handler) ToggleColumn(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	info := screen.Info()
	column := c.PostForm("column")
	vis := h.visibility(c, screen)

	known := false
	for _, opt := range screen.Build(resource.Result{}, query.New(screen.Defaults()), vis).Columns {
		if opt.ID == column {
			known = true
			break
		}
	}
	if !known {
		h.Toaster.Error(sessionID(c), "Lỗi", "Cột không hợp lệ.")
		backTo(c, info)
		return
	}

	if h.Store != nil {
		if err := h.Store.SaveViewPreference(c.Request.Context(), actor(c), info.Name, vis.Toggle(column).Hidden()); err != nil {
			logError("save view preference", err)
			h.Toaster.Error(sessionID(c), "Lỗi", "Không thể lưu tùy chọn hiển thị.")
		}
	}
	backTo(c, info)
}

// Refresh revalidates every cached page of the screen.
func (h *Handler) Refresh(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	info := screen.Info()
	if h.Cache != nil {
		if err := h.Cache.Revalidate(c.Request.Context(), info.Name); err != nil {
			logError("refresh "+info.Name, err)
		}
	}
	h.Toaster.Success(sessionID(c), "Đã làm mới", "Dữ liệu "+info.Noun+" đã được tải lại.")
	backTo(c, info)
}

// Export renders the current page as a PDF of the visible columns.
func (h *Handler) Export(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	info := screen.Info()
	st := state(c, screen)

	res, err := screen.Fetch(c.Request.Context(), st)
	if err != nil {
		logError("export "+info.Name, err)
		h.Toaster.Error(sessionID(c), "Lỗi xuất PDF", upstream.Message(err))
		c.Redirect(http.StatusSeeOther, listURL(info, st))
		return
	}

	sheet := table.Plain(screen.Build(res, st, h.visibility(c, screen)))
	var buf bytes.Buffer
	err = export.PDF(&buf, sheet, export.Options{Title: info.Title, FontPath: h.ExportFont, Generated: h.now()})
	if err != nil {
		logError("export "+info.Name, err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("%s-%s.pdf", info.Name, h.now().Format("20060102-1504"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ListJSON serves one page of a resource as JSON.
func (h *Handler) ListJSON(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	res, err := screen.Fetch(c.Request.Context(), state(c, screen))
	if err != nil {
		status := http.StatusBadGateway
		var apiErr *upstream.APIError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
		c.AbortWithStatusJSON(status, gin.H{"error": upstream.Message(err)})
		return
	}
	c.Header("X-Total-Count", strconv.Itoa(res.Total()))
	c.JSON(http.StatusOK, res.Page())
}

func listURL(info resource.Info, st *query.State) string {
	if q := st.Encode(); q != "" {
		return info.BasePath() + "?" + q
	}
	return info.BasePath()
}
