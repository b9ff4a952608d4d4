package catalog

import "errors"

var ErrNoTraceability = errors.New("no traceability records")
