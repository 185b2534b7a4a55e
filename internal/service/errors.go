package service

import "errors"

// ErrInvalidCredentials is returned by Authenticate for every failure
// mode: unknown email, wrong password, quit account.  A single
// sentinel so the login response cannot reveal which case occurred.
var ErrInvalidCredentials = errors.New("invalid credentials")
