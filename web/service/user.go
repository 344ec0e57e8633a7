// Package service implements the account, two-factor, and upload
// operations of the panel on top of the database layer.
package service

import (
	"userpanel/database"
	"userpanel/database/model"
	"userpanel/logger"
	"userpanel/util/crypto"
)

// UserService is the credential store of the panel. All reads and writes
// of user records go through it.
type UserService struct{}

func (s *UserService) GetUserByEmail(email string) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("email = ?", email).
		First(user).
		Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserById(id int) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("id = ?", id).
		First(user).
		Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Register creates a new account with the default role. The password is
// stored as a bcrypt hash; registration never logs the user in.
func (s *UserService) Register(username string, email string, password string) (*model.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, ErrValidation
	}

	hashedPassword, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:   username,
		Email:      email,
		Password:   hashedPassword,
		Role:       model.RoleUser,
		ProfilePic: model.DefaultProfilePic,
	}

	db := database.GetDB()
	if err := db.Create(user).Error; err != nil {
		if database.IsDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// CheckUser validates a login attempt. An unknown email and a wrong
// password both come back as ErrInvalidCredentials.
func (s *UserService) CheckUser(email string, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.GetUserByEmail(email)
	if database.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		logger.Warning("check user err:", err)
		return nil, err
	}

	if !crypto.CheckPasswordHash(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) UpdateUsername(id int, username string) error {
	db := database.GetDB()
	return db.Model(model.User{}).
		Where("id = ?", id).
		Update("username", username).
		Error
}

func (s *UserService) UpdateProfilePic(id int, path string) error {
	db := database.GetDB()
	return db.Model(model.User{}).
		Where("id = ?", id).
		Update("profile_pic", path).
		Error
}

// SetTwoFactor persists the TOTP secret and flips the enable flag in one
// update so the two never disagree in the store.
func (s *UserService) SetTwoFactor(id int, secret string, enable bool) error {
	db := database.GetDB()
	return db.Model(model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"totp_secret": secret, "two_factor_enable": enable}).
		Error
}

func (s *UserService) DeleteUser(id int) error {
	db := database.GetDB()
	return db.Delete(&model.User{}, id).Error
}

// AllProfilePics returns the profile-picture paths of every account,
// used by the upload pruning job.
func (s *UserService) AllProfilePics() ([]string, error) {
	db := database.GetDB()

	var paths []string
	err := db.Model(model.User{}).
		Pluck("profile_pic", &paths).
		Error
	if err != nil {
		return nil, err
	}
	return paths, nil
}
