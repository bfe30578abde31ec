package history

import "errors"

var ErrNotFound = errors.New("not found")
