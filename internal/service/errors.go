package service

import "errors"

var ErrMissingDeviceID = errors.New("reading has no device id")
