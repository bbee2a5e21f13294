package models

import "errors"

// Sentinel errors mapped to HTTP status codes by the API layer
var (
	ErrEntityNotFound  = errors.New("entity not found")
	ErrReportNotFound  = errors.New("report not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrAlreadyVerified = errors.New("report already verified")
	ErrAlreadySpam     = errors.New("report already marked as spam")
)
