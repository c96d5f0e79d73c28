package domain

import "errors"

var (
	ErrTrainNotFound        = errors.New("train not found")
	ErrTrainNotActive       = errors.New("train is not active")
	ErrInsufficientCapacity = errors.New("not enough seats available")
	ErrInvalidInput         = errors.New("invalid booking input")
	ErrBookingNotFound      = errors.New("booking not found")
)
