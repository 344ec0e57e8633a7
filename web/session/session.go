// Package session stores the authenticated user snapshot and the
// two-factor state in the cookie-backed session.
package session

import (
	"encoding/gob"

	"userpanel/database/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// CookieName is the name of the session cookie handed to the browser.
const CookieName = "userpanel"

const (
	loginUser       = "LOGIN_USER"
	twoFactorPassed = "2FA_PASSED"
)

func init() {
	gob.Register(model.User{})
}

// SetLoginUser stores a snapshot of the user in the session. The snapshot
// is not re-fetched per request; callers that mutate the account must also
// refresh it so both stay consistent.
func SetLoginUser(c *gin.Context, user *model.User) error {
	s := sessions.Default(c)
	s.Set(loginUser, *user)
	return s.Save()
}

func GetLoginUser(c *gin.Context) *model.User {
	s := sessions.Default(c)
	if obj := s.Get(loginUser); obj != nil {
		if user, ok := obj.(model.User); ok {
			return &user
		}
	}
	return nil
}

func IsLogin(c *gin.Context) bool {
	return GetLoginUser(c) != nil
}

// SetTwoFactorPassed records whether the current session has completed a
// TOTP challenge.
func SetTwoFactorPassed(c *gin.Context, passed bool) error {
	s := sessions.Default(c)
	s.Set(twoFactorPassed, passed)
	return s.Save()
}

func IsTwoFactorPassed(c *gin.Context) bool {
	s := sessions.Default(c)
	if obj := s.Get(twoFactorPassed); obj != nil {
		if passed, ok := obj.(bool); ok {
			return passed
		}
	}
	return false
}

func SetMaxAge(c *gin.Context, maxAge int) error {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	})
	return s.Save()
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	if err := s.Save(); err != nil {
		return err
	}
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
	return nil
}
