package protocol

import "errors"

// ErrMissingType is returned by Decode for frames that parse as JSON but
// carry no type discriminator. Such frames are dropped like any other
// malformed input.
var ErrMissingType = errors.New("frame has no type field")
