package redis

import "errors"

var (
	ErrInvalidConnectionURL = errors.New("failed to parse redis connection string")
	ErrConnectionFailed     = errors.New("failed to connect to redis")
	ErrHealthcheckFailed    = errors.New("redis healthcheck failed")
)
