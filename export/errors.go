// errors.go - Row error classification for exports
package export

import (
	"errors"

	"github.com/wilhasse/go-tps/format"
)

// isRowError reports whether err concerns a single row. Anything else came from
// the page layer and ends the scan.
func isRowError(err error) bool {
	var rs *format.RowSizeMismatchError
	var rd *format.RowDecodeError
	return errors.As(err, &rs) || errors.As(err, &rd)
}
