package features

import "errors"

var (
	// ErrUnknownFeature indicates a feature name or control token outside the known set.
	ErrUnknownFeature = errors.New("features: unknown feature")

	// ErrEmptySentence indicates a ratio was requested against an empty source sentence.
	ErrEmptySentence = errors.New("features: empty source sentence")

	// ErrMalformedToken indicates a control token that cannot be parsed.
	ErrMalformedToken = errors.New("features: malformed control token")
)
