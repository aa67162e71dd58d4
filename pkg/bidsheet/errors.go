package bidsheet

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the workbook file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrWorkbookRead indicates the workbook file is missing or corrupt.
// It is fatal to the whole import.
var ErrWorkbookRead = errors.New("workbook unreadable")

// SheetError represents a failure scoped to one sheet. The sheet is
// skipped and reported; the import continues.
type SheetError struct {
	SheetName string
	Component string // "cells", "table", "validations"
	Err       error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// NewSheetError creates a new SheetError.
func NewSheetError(sheetName, component string, err error) *SheetError {
	return &SheetError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
