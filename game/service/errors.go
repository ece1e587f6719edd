package service

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrMapNotFound     = errors.New("map not found")
	ErrInvalidQuery    = errors.New("invalid query")
)
