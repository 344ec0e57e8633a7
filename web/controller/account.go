package controller

import (
	"net/http"

	"userpanel/database/model"
	"userpanel/logger"
	"userpanel/web/service"
	"userpanel/web/session"

	"github.com/gin-gonic/gin"
)

// UpdateUserForm carries the new display name.
type UpdateUserForm struct {
	Username string `json:"username" form:"username"`
}

// AccountController handles the dashboard and the account management
// routes. Mutations update the store record and the in-session snapshot
// together so both stay consistent for the remainder of the session.
type AccountController struct {
	userService   service.UserService
	uploadService service.UploadService
}

func NewAccountController(g *gin.RouterGroup, uploadFolder string) *AccountController {
	a := &AccountController{
		uploadService: service.UploadService{Folder: uploadFolder},
	}
	a.initRouter(g)
	return a
}

func (a *AccountController) initRouter(g *gin.RouterGroup) {
	g.GET("/dashboard", a.dashboard)
	g.POST("/update-user", a.updateUser)
	g.POST("/delete-user", a.deleteUser)
	g.POST("/upload-profile", a.uploadProfile)
}

func (a *AccountController) dashboard(c *gin.Context) {
	user := session.GetLoginUser(c)
	html(c, "dashboard.html", "Dashboard", gin.H{
		"user": user,
	})
}

func (a *AccountController) updateUser(c *gin.Context) {
	var form UpdateUserForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	user := session.GetLoginUser(c)
	if err := a.userService.UpdateUsername(user.Id, form.Username); err != nil {
		logger.Warning("update username err:", err)
		c.String(http.StatusInternalServerError, "Error updating user")
		return
	}

	user.Username = form.Username
	if err := session.SetLoginUser(c, user); err != nil {
		logger.Warning("Unable to refresh session:", err)
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

// deleteUser removes the account and destroys the session.
func (a *AccountController) deleteUser(c *gin.Context) {
	user := session.GetLoginUser(c)
	if err := a.userService.DeleteUser(user.Id); err != nil {
		logger.Warning("delete user err:", err)
		c.String(http.StatusInternalServerError, "Error deleting user")
		return
	}

	logger.Infof("account deleted: %s", user.Email)
	if err := session.ClearSession(c); err != nil {
		logger.Warning("Unable to clear session:", err)
	}
	c.Redirect(http.StatusFound, "/")
}

// uploadProfile stores the submitted picture and records its path on the
// account and in the session snapshot.
func (a *AccountController) uploadProfile(c *gin.Context) {
	fileHeader, err := c.FormFile("profilePic")
	if err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, service.ErrNoFile.Error())
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, service.ErrNoFile.Error())
		return
	}
	defer src.Close()

	path, err := a.uploadService.Store(src, fileHeader.Filename)
	if err != nil {
		logger.Warning("store upload err:", err)
		c.String(http.StatusInternalServerError, "Error uploading file")
		return
	}

	user := session.GetLoginUser(c)
	if err := a.userService.UpdateProfilePic(user.Id, path); err != nil {
		logger.Warning("update profile pic err:", err)
		c.String(http.StatusInternalServerError, "Error uploading file")
		return
	}

	user.ProfilePic = path
	if err := session.SetLoginUser(c, user); err != nil {
		logger.Warning("Unable to refresh session:", err)
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

// PublicController serves the index page and the JSON endpoints that are
// reachable with or without a session.
type PublicController struct{}

func NewPublicController(g *gin.RouterGroup) *PublicController {
	a := &PublicController{}
	a.initRouter(g)
	return a
}

func (a *PublicController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)
	g.GET("/get-user", a.getUser)
	g.GET("/get-profile-pic", a.getProfilePic)
}

func (a *PublicController) index(c *gin.Context) {
	html(c, "index.html", "Home", gin.H{
		"user": session.GetLoginUser(c),
	})
}

// getUser reports the role of the session user, or "guest" when there is
// no session.
func (a *PublicController) getUser(c *gin.Context) {
	role := "guest"
	if user := session.GetLoginUser(c); user != nil {
		role = user.Role
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

// getProfilePic reports the profile picture of the session user, or the
// default placeholder when there is no session.
func (a *PublicController) getProfilePic(c *gin.Context) {
	pic := model.DefaultProfilePic
	if user := session.GetLoginUser(c); user != nil {
		pic = user.ProfilePic
	}
	c.JSON(http.StatusOK, gin.H{"profilePic": pic})
}
