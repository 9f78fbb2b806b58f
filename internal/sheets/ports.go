package sheets

import (
	"context"
	"errors"
)

// ErrTabNotFound is returned by TabReader implementations when the
// named tab does not exist in the spreadsheet. Callers fall back
// through alternate tab-name candidates on this error.
var ErrTabNotFound = errors.New("sheet tab not found")

// TabReader reads all rows of a named spreadsheet tab. The first row
// is returned separately as the header; rows may be shorter than the
// header and cells may be empty.
type TabReader interface {
	ReadTab(ctx context.Context, tab string) (header []string, rows [][]string, err error)
}
