package service

import (
	"time"

	"userpanel/database"
	"userpanel/database/model"
	"userpanel/logger"

	"github.com/xlzd/gotp"
)

const totpIssuer = "userpanel"

// totpStep is the TOTP time-step in seconds (RFC 6238 default).
const totpStep = 30

// TwoFactorService provisions and verifies TOTP secrets.
type TwoFactorService struct {
	userService UserService
}

// Setup generates a fresh secret for the user, persists it, and returns
// the secret together with its otpauth enrollment URL. The enable flag is
// set eagerly, before the user ever proves possession of an
// authenticator; verification only gates the session, not enrollment.
func (s *TwoFactorService) Setup(userId int) (*model.User, string, error) {
	user, err := s.userService.GetUserById(userId)
	if err != nil {
		return nil, "", err
	}

	if user.TotpSecret != "" {
		// Re-visiting the setup page shows the existing enrollment
		// instead of rotating the secret.
		return user, s.ProvisioningUri(user), nil
	}

	secret := gotp.RandomSecret(32)
	if err := s.userService.SetTwoFactor(user.Id, secret, true); err != nil {
		return nil, "", err
	}
	logger.Infof("two-factor enabled for %s", user.Email)

	user.TotpSecret = secret
	user.TwoFactorEnable = true
	return user, s.ProvisioningUri(user), nil
}

// ProvisioningUri returns the otpauth:// URL encoding the user's secret,
// suitable for QR rendering.
func (s *TwoFactorService) ProvisioningUri(user *model.User) string {
	return gotp.NewDefaultTOTP(user.TotpSecret).ProvisioningUri(user.Email, totpIssuer)
}

// Verify checks a submitted code against the stored secret for the user.
// One time-step of clock skew is tolerated either side of now. Codes are
// not single-use; a code replayed within its window still verifies.
func (s *TwoFactorService) Verify(userId int, code string) error {
	user, err := s.userService.GetUserById(userId)
	if database.IsNotFound(err) {
		return ErrTwoFactorNotSetUp
	} else if err != nil {
		return err
	}

	if user.TotpSecret == "" {
		return ErrTwoFactorNotSetUp
	}
	if code == "" {
		return ErrInvalidTwoFactorCode
	}

	totp := gotp.NewDefaultTOTP(user.TotpSecret)
	now := time.Now().Unix()
	for _, at := range []int64{now, now - totpStep, now + totpStep} {
		if totp.At(at) == code {
			return nil
		}
	}
	return ErrInvalidTwoFactorCode
}
