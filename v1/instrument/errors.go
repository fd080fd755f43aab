package instrument

import "errors"

var (
	// ErrNotStruct is returned when Inject is given anything but a non-nil
	// pointer to a struct.
	ErrNotStruct = errors.New("instrument: inject target must be a pointer to a struct")

	// ErrUnsupportedField is returned for a tagged field that is unexported or
	// not an observable type.
	ErrUnsupportedField = errors.New("instrument: unsupported metric field")

	// ErrGaugeSignature is returned when a Gauge method is not a niladic
	// method returning a number.
	ErrGaugeSignature = errors.New("instrument: gauge method must take no arguments and return a number")
)
