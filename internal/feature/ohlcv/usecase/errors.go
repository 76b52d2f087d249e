// Package usecase implements the OHLCV load, filter, aggregate and render pipeline.
package usecase

import "errors"

var (
	// ErrParse is returned when an uploaded or sample file is not a valid OHLCV CSV.
	ErrParse = errors.New("malformed csv")

	// ErrInvalidDateFormat is returned when a Date cell cannot be parsed as a calendar date.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrMissingSampleData is returned when no upload exists and the sample file is absent.
	ErrMissingSampleData = errors.New("sample data not found")

	// ErrUnreadableSampleData is returned when the sample file exists but cannot be read.
	ErrUnreadableSampleData = errors.New("sample data unreadable")

	// ErrNoSelection is returned when no symbol is selected or the date range is invalid.
	ErrNoSelection = errors.New("no symbol or date range selected")

	// ErrEmptyResult is returned by Export when the selection matched no rows.
	ErrEmptyResult = errors.New("no data found for the selected filters")

	// ErrUploadNotFound is returned by an UploadStore when a session has no upload.
	ErrUploadNotFound = errors.New("upload not found")
)
