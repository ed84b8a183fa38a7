package domain

import "errors"

var (
	ErrChannelNotFound = errors.New("channel not found")
	ErrRecordNotFound  = errors.New("sentiment record not found")
	ErrRecordExists    = errors.New("sentiment record already exists")
	ErrSummaryNotFound = errors.New("summary not found")
	ErrSummaryExists   = errors.New("summary already exists")
	ErrInsightNotFound = errors.New("insight not found")
)
