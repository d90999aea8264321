package session

import "errors"

var ErrNotLoggedIn = errors.New("session: not logged in")
