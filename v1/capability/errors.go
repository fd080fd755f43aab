package capability

import "errors"

var (
	// ErrReify is returned when the metadata of an implementation cannot be computed.
	ErrReify = errors.New("capability: cannot reify implementation metadata")

	// ErrInstantiate is returned when an implementation cannot be constructed.
	ErrInstantiate = errors.New("capability: cannot instantiate implementation")

	// ErrNoContract is returned when reified metadata lacks the requested capability.
	ErrNoContract = errors.New("capability: implementation has no matching contract")

	// ErrNotAnnotation is returned when a contract argument is not a usable annotation type.
	ErrNotAnnotation = errors.New("capability: contract argument is not an annotation type")
)

// IsConfigurationError reports whether err is a misconfiguration that should
// be logged and skipped rather than treated as fatal.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrReify) || errors.Is(err, ErrNoContract) || errors.Is(err, ErrNotAnnotation)
}
