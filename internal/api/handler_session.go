package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kiosk-admin-console/internal/upstream"
)

type loginRequest struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

// LoginPage renders the login form.
func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login", loginPage{
		page: page{Title: "Đăng nhập"},
		Next: safeNext(c.Query("next")),
	})
}

// Login exchanges the posted credentials for backend tokens.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login", loginPage{
			page:  page{Title: "Đăng nhập"},
			Next:  safeNext(c.PostForm("next")),
			Email: c.PostForm("email"),
			Error: "Vui lòng nhập email và mật khẩu hợp lệ.",
		})
		return
	}

	tokens, err := h.Client.Login(c.Request.Context(), req.Email, req.Password)
	if err == nil {
		_, err = h.Auth.SetTokens(c, tokens)
	}
	if err != nil {
		logError("login", err)
		c.HTML(http.StatusUnauthorized, "login", loginPage{
			page:  page{Title: "Đăng nhập"},
			Next:  safeNext(req.Next),
			Email: req.Email,
			Error: upstream.Message(err),
		})
		return
	}

	h.Auth.EnsureSID(c)
	target := safeNext(req.Next)
	if target == "" {
		target = h.home()
	}
	c.Redirect(http.StatusSeeOther, target)
}

// Logout clears the console cookies.
func (h *Handler) Logout(c *gin.Context) {
	h.Auth.Clear(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

// Home sends the operator to the first screen.
func (h *Handler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, h.home())
}

func (h *Handler) home() string {
	if all := h.Screens.All(); len(all) > 0 {
		return all[0].Info().BasePath()
	}
	return "/login"
}

// safeNext keeps only local paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
