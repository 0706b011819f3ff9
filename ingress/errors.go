// Package ingress implements the adapter ingress contract (spec §4.9): the
// four-step validation pipeline every venue-facing producer must pass
// before delivering a TLV message to a relay.
package ingress

import "fmt"

// IngressError reports a failure at one of the four pipeline steps. It
// never surfaces on the wire (spec §7 "IdentifierError ... producer-local");
// the same holds for ingress failures, which are caught before a message
// ever reaches a relay socket.
type IngressError struct {
	Kind  string
	Step  int
	Field string
	Got   string
}

func (e *IngressError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case "semantic_range":
		return fmt.Sprintf("ingress: step %d semantic validation failed: field %q value %s out of range", e.Step, e.Field, e.Got)
	case "build_length_mismatch":
		return fmt.Sprintf("ingress: step %d TLV build length mismatch: %s", e.Step, e.Got)
	case "roundtrip_decode":
		return fmt.Sprintf("ingress: step %d roundtrip decode failed: %s", e.Step, e.Got)
	case "deep_equality":
		return fmt.Sprintf("ingress: step %d deep-equality check failed: field %q differs (%s)", e.Step, e.Field, e.Got)
	default:
		return fmt.Sprintf("ingress: step %d %s: field %q %s", e.Step, e.Kind, e.Field, e.Got)
	}
}

func errSemanticRange(field, got string) error {
	return &IngressError{Kind: "semantic_range", Step: 1, Field: field, Got: got}
}

func errBuildLengthMismatch(got string) error {
	return &IngressError{Kind: "build_length_mismatch", Step: 2, Got: got}
}

func errRoundtripDecode(got string) error {
	return &IngressError{Kind: "roundtrip_decode", Step: 3, Got: got}
}

func errDeepEquality(field, got string) error {
	return &IngressError{Kind: "deep_equality", Step: 4, Field: field, Got: got}
}
