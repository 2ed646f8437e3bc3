package asset

import "errors"

var (
	// ErrNoMatchingAsset is returned when no asset is registered against a
	// storage key. The uploaded object is not a processable asset and the
	// caller skips it without creating any records.
	ErrNoMatchingAsset = errors.New("no asset registered for storage key")
)
