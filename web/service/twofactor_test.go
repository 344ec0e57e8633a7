package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xlzd/gotp"
)

func TestTwoFactorSetupAndVerify(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}
	twoFactorService := TwoFactorService{}

	user, err := userService.Register("alice", "a@x.com", "pw123")
	assert.NoError(t, err)

	enrolled, uri, err := twoFactorService.Setup(user.Id)
	assert.NoError(t, err)
	assert.NotEmpty(t, enrolled.TotpSecret)
	assert.True(t, enrolled.TwoFactorEnable)
	assert.True(t, strings.HasPrefix(uri, "otpauth://totp/"))
	assert.Contains(t, uri, "a%40x.com")

	// The flag is persisted eagerly, before any code was ever verified.
	stored, err := userService.GetUserById(user.Id)
	assert.NoError(t, err)
	assert.True(t, stored.TwoFactorEnable)
	assert.Equal(t, enrolled.TotpSecret, stored.TotpSecret)

	code := gotp.NewDefaultTOTP(stored.TotpSecret).Now()
	assert.NoError(t, twoFactorService.Verify(user.Id, code))

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	assert.ErrorIs(t, twoFactorService.Verify(user.Id, wrong), ErrInvalidTwoFactorCode)
}

func TestTwoFactorSetupIsIdempotent(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}
	twoFactorService := TwoFactorService{}

	user, err := userService.Register("alice", "a@x.com", "pw123")
	assert.NoError(t, err)

	first, _, err := twoFactorService.Setup(user.Id)
	assert.NoError(t, err)

	// Revisiting setup keeps the existing secret instead of rotating it.
	second, _, err := twoFactorService.Setup(user.Id)
	assert.NoError(t, err)
	assert.Equal(t, first.TotpSecret, second.TotpSecret)
}

func TestTwoFactorVerifyNotSetUp(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}
	twoFactorService := TwoFactorService{}

	user, err := userService.Register("alice", "a@x.com", "pw123")
	assert.NoError(t, err)

	err = twoFactorService.Verify(user.Id, "123456")
	assert.ErrorIs(t, err, ErrTwoFactorNotSetUp)
}

func TestTwoFactorClockSkewWindow(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}
	twoFactorService := TwoFactorService{}

	user, err := userService.Register("alice", "a@x.com", "pw123")
	assert.NoError(t, err)

	enrolled, _, err := twoFactorService.Setup(user.Id)
	assert.NoError(t, err)

	totp := gotp.NewDefaultTOTP(enrolled.TotpSecret)
	now := time.Now().Unix()

	// One step either side of now is tolerated.
	assert.NoError(t, twoFactorService.Verify(user.Id, totp.At(now-totpStep)))
	assert.NoError(t, twoFactorService.Verify(user.Id, totp.At(now+totpStep)))

	// Two steps away is outside the window.
	stale := totp.At(now - 3*totpStep)
	if stale != totp.At(now) && stale != totp.At(now-totpStep) && stale != totp.At(now+totpStep) {
		assert.ErrorIs(t, twoFactorService.Verify(user.Id, stale), ErrInvalidTwoFactorCode)
	}

	assert.ErrorIs(t, twoFactorService.Verify(user.Id, ""), ErrInvalidTwoFactorCode)
}
