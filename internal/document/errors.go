package document

import "errors"

// ErrRangeInvalid is returned for line ranges outside the document.
var ErrRangeInvalid = errors.New("invalid line range")
