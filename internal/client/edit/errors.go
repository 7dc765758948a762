package edit

import "errors"

var (
	ErrBusy    = errors.New("save in progress")
	ErrNotOpen = errors.New("no record is open for editing")
)
