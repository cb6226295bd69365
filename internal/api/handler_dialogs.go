package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"kiosk-admin-console/internal/dialog"
	"kiosk-admin-console/internal/model"
	"kiosk-admin-console/internal/resource"
	"kiosk-admin-console/internal/upstream"
)

// editor resolves the screen and editor of the request.
func (h *Handler) editor(c *gin.Context) (resource.Info, resource.Editor, bool) {
	screen, ok := h.screen(c)
	if !ok {
		return resource.Info{}, nil, false
	}
	ed, ok := h.Dialogs.Editor(screen.Info().Name)
	if !ok {
		h.notFound(c)
		return resource.Info{}, nil, false
	}
	return screen.Info(), ed, true
}

// FormPage renders the create dialog, or the edit dialog when :id is set.
func (h *Handler) FormPage(c *gin.Context) {
	info, ed, ok := h.editor(c)
	if !ok {
		return
	}
	view, err := ed.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		logError("open "+info.Name+" dialog", err)
		h.Toaster.Error(sessionID(c), "Lỗi tải dữ liệu", upstream.Message(err))
		c.Redirect(http.StatusSeeOther, info.BasePath())
		return
	}
	c.HTML(http.StatusOK, "form", formPage{page: h.page(c, view.Title, info.Name), Info: info, Form: view})
}

// SubmitForm handles the create and edit dialogs.
func (h *Handler) SubmitForm(c *gin.Context) {
	info, ed, ok := h.editor(c)
	if !ok {
		return
	}
	success, failure := h.hooks(c, info)
	view, outcome, err := ed.Submit(c.Request.Context(), resource.Submission{
		ID:      c.Param("id"),
		Actor:   actor(c),
		Bind:    bindForm(c),
		Success: success,
		Failure: failure,
	})
	if outcome == dialog.Succeeded {
		c.Redirect(http.StatusSeeOther, info.BasePath())
		return
	}

	status := http.StatusOK
	if outcome == dialog.Invalid {
		status = http.StatusUnprocessableEntity
	}
	if err != nil {
		logError("submit "+info.Name, err)
	}
	c.HTML(status, "form", formPage{page: h.page(c, view.Title, info.Name), Info: info, Form: view})
}

// bindForm decodes a nested form from its JSON payload field and a flat
// form from the posted fields.
func bindForm(c *gin.Context) func(any) error {
	return func(form any) error {
		if raw := c.PostForm("payload"); raw != "" {
			return json.Unmarshal([]byte(raw), form)
		}
		return c.ShouldBind(form)
	}
}

// Delete handles the confirm-delete dialog of a row.
func (h *Handler) Delete(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	info := screen.Info()
	del, ok := h.Dialogs.Deleter(info.Name)
	if !ok {
		h.notFound(c)
		return
	}

	success, failure := h.hooks(c, info)
	outcome, msg, err := del.Delete(c.Request.Context(), resource.Submission{
		ID:      c.Param("id"),
		Actor:   actor(c),
		Success: success,
		Failure: failure,
	})
	if err != nil {
		logError("delete "+info.Name, err)
	}
	if outcome == dialog.Invalid {
		h.Toaster.Error(sessionID(c), dialog.FailureTitle(model.ActionDelete, info.Noun), msg)
	}
	backTo(c, info)
}
