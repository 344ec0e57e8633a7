package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("PANEL_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("PANEL_DEBUG") == "true"
}

func GetListen() string {
	return os.Getenv("PANEL_LISTEN")
}

func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("PANEL_PORT"))
	if err != nil || port <= 0 {
		return 3000
	}
	return port
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("PANEL_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "data"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetUploadFolderPath() string {
	uploadFolderPath := os.Getenv("PANEL_UPLOAD_FOLDER")
	if uploadFolderPath == "" {
		uploadFolderPath = "data/uploads"
	}
	return uploadFolderPath
}

// GetSessionSecret returns the key used to sign session cookies. The
// default is only suitable for development.
func GetSessionSecret() string {
	secret := os.Getenv("PANEL_SESSION_SECRET")
	if secret == "" {
		secret = "userpanel-dev-secret"
	}
	return secret
}

// GetSessionMaxAge returns the session lifetime in minutes.
func GetSessionMaxAge() int {
	maxAge, err := strconv.Atoi(os.Getenv("PANEL_SESSION_MAX_AGE"))
	if err != nil || maxAge <= 0 {
		return 60
	}
	return maxAge
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("PANEL_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "data/log"
	}
	return logFolderPath
}
