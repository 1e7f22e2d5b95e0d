package repository

import "errors"

var (
	ErrInvalidAnswerData = errors.New("invalid answer data")
	ErrInvalidScheduleData = errors.New("invalid schedule data")
)
