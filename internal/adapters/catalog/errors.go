package catalog

import "errors"

// ErrLoadCatalog wraps failures reading or decoding a catalog file.
var ErrLoadCatalog = errors.New("load catalog failed")
