package controller

import (
	"errors"
	"net/http"

	"userpanel/logger"
	"userpanel/web/service"
	"userpanel/web/session"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// VerifyForm carries the submitted TOTP code.
type VerifyForm struct {
	Code string `json:"code" form:"code"`
}

// TwoFactorController handles TOTP enrollment and verification. All of
// its routes require a session; verification is reachable while the
// session is still in the pending state.
type TwoFactorController struct {
	twoFactorService service.TwoFactorService
}

func NewTwoFactorController(g *gin.RouterGroup) *TwoFactorController {
	a := &TwoFactorController{}
	a.initRouter(g)
	return a
}

func (a *TwoFactorController) initRouter(g *gin.RouterGroup) {
	g.GET("/setup-2fa", a.setupPage)
	g.GET("/setup-2fa/qr.png", a.qrImage)
	g.GET("/verify-2fa", a.verifyPage)
	g.POST("/verify-2fa", a.verify)
}

// setupPage provisions a secret on first visit and shows the enrollment
// page with the secret and its QR code. The account is marked as
// two-factor enabled as soon as the secret exists, before any code has
// been verified.
func (a *TwoFactorController) setupPage(c *gin.Context) {
	sessionUser := session.GetLoginUser(c)

	user, uri, err := a.twoFactorService.Setup(sessionUser.Id)
	if err != nil {
		logger.Warning("two-factor setup err:", err)
		c.String(http.StatusInternalServerError, "Error setting up two-factor authentication")
		return
	}

	// Keep the snapshot in step with the store so the new flag takes
	// effect for the rest of this session. The enrolling session becomes
	// pending like any other; the first code from the freshly enrolled
	// authenticator unlocks it.
	if err := session.SetLoginUser(c, user); err != nil {
		logger.Warning("Unable to refresh session:", err)
	}

	html(c, "setup-2fa.html", "Two-factor setup", gin.H{
		"user":   user,
		"secret": user.TotpSecret,
		"uri":    uri,
	})
}

// qrImage renders the enrollment URL of the session user's secret as a
// PNG for authenticator apps to scan.
func (a *TwoFactorController) qrImage(c *gin.Context) {
	user := session.GetLoginUser(c)
	if user.TotpSecret == "" {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	png, err := qrcode.Encode(a.twoFactorService.ProvisioningUri(user), qrcode.Medium, 256)
	if err != nil {
		logger.Warning("qr encode err:", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (a *TwoFactorController) verifyPage(c *gin.Context) {
	html(c, "verify-2fa.html", "Two-factor verification", nil)
}

// verify checks the submitted code and, on success, marks the session as
// fully authenticated. A wrong code leaves the session state untouched;
// there is no lockout or backoff.
func (a *TwoFactorController) verify(c *gin.Context) {
	var form VerifyForm
	if err := c.ShouldBind(&form); err != nil {
		a.verifyError(c, service.ErrInvalidTwoFactorCode)
		return
	}

	user := session.GetLoginUser(c)
	err := a.twoFactorService.Verify(user.Id, form.Code)
	if errors.Is(err, service.ErrTwoFactorNotSetUp) || errors.Is(err, service.ErrInvalidTwoFactorCode) {
		logger.Warningf("failed two-factor attempt for %s, IP: %s", user.Email, getRemoteIp(c))
		a.verifyError(c, err)
		return
	} else if err != nil {
		c.String(http.StatusInternalServerError, "Error verifying code")
		return
	}

	if err := session.SetTwoFactorPassed(c, true); err != nil {
		logger.Warning("Unable to save session:", err)
		c.String(http.StatusInternalServerError, "Error verifying code")
		return
	}

	if isAjax(c) {
		jsonMsg(c, "two-factor verification successful", nil)
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (a *TwoFactorController) verifyError(c *gin.Context, err error) {
	if isAjax(c) {
		pureJsonMsg(c, http.StatusBadRequest, false, err.Error())
		return
	}
	c.HTML(http.StatusBadRequest, "verify-2fa.html", getContext(gin.H{
		"title": "Two-factor verification",
		"error": err.Error(),
	}))
}
