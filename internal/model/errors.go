package model

import "errors"

var ErrNoRecord = errors.New("no record")
var ErrAlreadyExists = errors.New("entity already exists")
var ErrConflict = errors.New("concurrent modification, retry")
var ErrInvalidRule = errors.New("invalid recurrence rule")
