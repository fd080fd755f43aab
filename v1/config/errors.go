package config

import "errors"

var (
	// ErrUnsupportedFormat is returned for formats other than YAML and JSON.
	ErrUnsupportedFormat = errors.New("config: unsupported format")

	// ErrParse is returned when the document cannot be parsed.
	ErrParse = errors.New("config: parse failed")

	// ErrUnmarshal is returned when the parsed document does not fit Config.
	ErrUnmarshal = errors.New("config: unmarshal failed")
)
