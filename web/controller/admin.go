package controller

import (
	"userpanel/logger"
	"userpanel/web/session"

	"github.com/gin-gonic/gin"
)

// AdminController serves the admin-only area. The role check itself lives
// in middleware.RequireRole on the group this controller is mounted on.
type AdminController struct{}

func NewAdminController(g *gin.RouterGroup) *AdminController {
	a := &AdminController{}
	a.initRouter(g)
	return a
}

func (a *AdminController) initRouter(g *gin.RouterGroup) {
	g.GET("/admin", a.adminPage)
	g.GET("/admin/logs", a.logs)
}

func (a *AdminController) adminPage(c *gin.Context) {
	html(c, "admin.html", "Admin", gin.H{
		"user": session.GetLoginUser(c),
	})
}

// logs returns the most recent log entries from the in-memory buffer.
func (a *AdminController) logs(c *gin.Context) {
	jsonObj(c, logger.GetLogs(100, "INFO"), nil)
}
