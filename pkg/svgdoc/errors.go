package svgdoc

import "github.com/matzehuels/kumiko/pkg/errors"

var errMissingViewBox = errors.New(errors.ErrCodeInvalidFormat, "document has no usable viewBox")
