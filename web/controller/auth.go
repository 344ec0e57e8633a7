// Package controller provides the HTTP request handlers of the panel:
// registration, login, two-factor setup and verification, account
// management, and the admin area.
package controller

import (
	"errors"
	"net/http"

	"userpanel/logger"
	"userpanel/web/service"
	"userpanel/web/session"

	"github.com/gin-gonic/gin"
)

// RegisterForm represents the registration request structure.
type RegisterForm struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginForm represents the login request structure.
type LoginForm struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// AuthController handles registration, login, and logout.
type AuthController struct {
	userService service.UserService
}

// NewAuthController creates a new AuthController and initializes its routes.
func NewAuthController(g *gin.RouterGroup) *AuthController {
	a := &AuthController{}
	a.initRouter(g)
	return a
}

func (a *AuthController) initRouter(g *gin.RouterGroup) {
	g.GET("/register", a.registerPage)
	g.POST("/register", a.register)
	g.GET("/login", a.loginPage)
	g.POST("/login", a.login)
	g.GET("/logout", a.logout)
}

func (a *AuthController) registerPage(c *gin.Context) {
	html(c, "register.html", "Register", nil)
}

// register creates a new account and sends the user to the login page.
// It never logs the new account in.
func (a *AuthController) register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		a.registerError(c, service.ErrValidation)
		return
	}

	_, err := a.userService.Register(form.Username, form.Email, form.Password)
	if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrEmailTaken) {
		a.registerError(c, err)
		return
	} else if err != nil {
		logger.Warning("register err:", err)
		c.String(http.StatusInternalServerError, "Error registering user")
		return
	}

	logger.Infof("new account registered: %s", form.Email)
	if isAjax(c) {
		jsonMsg(c, "registration successful", nil)
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (a *AuthController) registerError(c *gin.Context, err error) {
	if isAjax(c) {
		pureJsonMsg(c, http.StatusBadRequest, false, err.Error())
		return
	}
	c.HTML(http.StatusBadRequest, "register.html", getContext(gin.H{
		"title": "Register",
		"error": err.Error(),
	}))
}

func (a *AuthController) loginPage(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusTemporaryRedirect, "/dashboard")
		return
	}
	html(c, "login.html", "Login", nil)
}

// login authenticates the user and creates the session snapshot. Users
// with two-factor enabled land in the pending state and are sent to the
// challenge page instead of the dashboard.
func (a *AuthController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		a.loginError(c, service.ErrInvalidCredentials)
		return
	}

	user, err := a.userService.CheckUser(form.Email, form.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		logger.Warningf("failed login for \"%s\", IP: \"%s\"", form.Email, getRemoteIp(c))
		a.loginError(c, err)
		return
	} else if err != nil {
		c.String(http.StatusInternalServerError, "Error logging in")
		return
	}

	if err := session.SetMaxAge(c, sessionMaxAgeSeconds()); err != nil {
		logger.Warning("Unable to set session max age:", err)
	}
	if err := session.SetLoginUser(c, user); err != nil {
		logger.Warning("Unable to save session:", err)
		c.String(http.StatusInternalServerError, "Error logging in")
		return
	}
	// Every login starts with a fresh two-factor state. A browser session
	// that passed the challenge before, or that a different account used,
	// must not carry the verified flag over.
	if err := session.SetTwoFactorPassed(c, false); err != nil {
		logger.Warning("Unable to reset two-factor state:", err)
		c.String(http.StatusInternalServerError, "Error logging in")
		return
	}

	logger.Infof("%s logged in successfully, IP: %s", user.Email, getRemoteIp(c))

	if user.TwoFactorEnable {
		c.Redirect(http.StatusFound, "/verify-2fa")
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (a *AuthController) loginError(c *gin.Context, err error) {
	if isAjax(c) {
		pureJsonMsg(c, http.StatusBadRequest, false, err.Error())
		return
	}
	c.HTML(http.StatusBadRequest, "login.html", getContext(gin.H{
		"title": "Login",
		"error": err.Error(),
	}))
}

// logout destroys the session unconditionally and returns to the index.
func (a *AuthController) logout(c *gin.Context) {
	if user := session.GetLoginUser(c); user != nil {
		logger.Infof("%s logged out", user.Email)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("Unable to clear session:", err)
	}
	c.Redirect(http.StatusFound, "/")
}
