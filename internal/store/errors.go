package store

import "errors"

var (
	ErrNotFound       = errors.New("store: resource not found")
	ErrDuplicate      = errors.New("store: duplicate resource")
	ErrUnknownDriver  = errors.New("store: unknown history driver")
	ErrHistoryOffline = errors.New("store: prediction history is not configured")
)
