package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrNotProjectOwner       = errors.New("user is not the project owner")
	ErrTransportHashMismatch = errors.New("push payload hash mismatch")
	ErrFileNotFound          = errors.New("file not found in project version")
)
