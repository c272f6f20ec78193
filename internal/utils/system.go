package utils

import (
	"errors"
	"os"
	"os/user"
)

// GetUsername returns the login name of the current user. When the user
// database is unavailable, as in some minimal containers, it falls back to
// $USER.
func GetUsername() (string, error) {
	u, err := user.Current()
	if err == nil && u.Username != "" {
		return u.Username, nil
	}
	if name := os.Getenv("USER"); name != "" {
		return name, nil
	}
	if err == nil {
		err = errors.New("current user has no name")
	}
	return "", err
}

// GetHostname returns the system hostname.
func GetHostname() (string, error) {
	return os.Hostname()
}
