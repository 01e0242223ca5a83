package domain

import "errors"

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrSeatsUnavailable = errors.New("seats are not available")
	ErrBookingCancelled = errors.New("booking has been cancelled")
)
