package service

import (
	"os"
	"testing"

	"userpanel/database"
	"userpanel/database/model"
	"userpanel/logger"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func setup() {
	os.Setenv("PANEL_LOG_FOLDER", os.TempDir())
	logger.InitLogger(logging.DEBUG)

	dbPath := "test.db"
	os.Remove(dbPath)
	database.InitDB(dbPath)
}

func teardown() {
	db, _ := database.GetDB().DB()
	db.Close()
	os.Remove("test.db")
}

func TestRegisterAndLogin(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	user, err := service.Register("alice", "a@x.com", "pw123")
	assert.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.Equal(t, model.DefaultProfilePic, user.ProfilePic)
	assert.NotEqual(t, "pw123", user.Password)
	assert.False(t, user.TwoFactorEnable)

	loggedIn, err := service.CheckUser("a@x.com", "pw123")
	assert.NoError(t, err)
	assert.Equal(t, user.Id, loggedIn.Id)
	assert.Equal(t, "alice", loggedIn.Username)
}

func TestRegisterValidation(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	_, err := service.Register("", "a@x.com", "pw123")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = service.Register("alice", "", "pw123")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = service.Register("alice", "a@x.com", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	_, err := service.Register("alice", "a@x.com", "pw123")
	assert.NoError(t, err)

	// Same email always fails, regardless of the other fields.
	_, err = service.Register("bob", "a@x.com", "different")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginEnumerationResistance(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	_, err := service.Register("alice", "a@x.com", "pw123")
	assert.NoError(t, err)

	_, wrongPassErr := service.CheckUser("a@x.com", "nope")
	_, unknownEmailErr := service.CheckUser("nobody@x.com", "pw123")

	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmailErr, ErrInvalidCredentials)
	assert.Equal(t, wrongPassErr.Error(), unknownEmailErr.Error())
}

func TestUpdateUsername(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	user, err := service.Register("alice", "a@x.com", "pw123")
	assert.NoError(t, err)

	err = service.UpdateUsername(user.Id, "alice2")
	assert.NoError(t, err)

	updated, err := service.GetUserById(user.Id)
	assert.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	// Email has no update path.
	assert.Equal(t, "a@x.com", updated.Email)
}

func TestDeleteUser(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	user, err := service.Register("alice", "a@x.com", "pw123")
	assert.NoError(t, err)

	err = service.DeleteUser(user.Id)
	assert.NoError(t, err)

	_, err = service.GetUserById(user.Id)
	assert.True(t, database.IsNotFound(err))

	// The email is free again.
	_, err = service.Register("alice", "a@x.com", "pw123")
	assert.NoError(t, err)
}

func TestUpdateProfilePic(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	user, err := service.Register("alice", "a@x.com", "pw123")
	assert.NoError(t, err)

	err = service.UpdateProfilePic(user.Id, "/uploads/123-abc-me.png")
	assert.NoError(t, err)

	updated, err := service.GetUserById(user.Id)
	assert.NoError(t, err)
	assert.Equal(t, "/uploads/123-abc-me.png", updated.ProfilePic)

	pics, err := service.AllProfilePics()
	assert.NoError(t, err)
	assert.Contains(t, pics, "/uploads/123-abc-me.png")
}
