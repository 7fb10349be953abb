package services

import "errors"

// ErrNotFound signals an entity lookup miss. Handlers map it to a 404.
var ErrNotFound = errors.New("not found")

// ErrUnsupportedImage signals an upload with a file type the image store
// does not accept.
var ErrUnsupportedImage = errors.New("unsupported image type")
