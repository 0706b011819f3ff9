package validation

import "fmt"

// ValidationError is the typed failure taxonomy for everything the
// validator itself rejects, distinct from wire.ProtocolError (which covers
// codec-level malformation) per spec §7.
type ValidationError struct {
	Kind        string
	Domain      uint8
	Limit       int
	Got         int
	TLVType     uint8
	Expected    uint32
	Actual      uint32
	TimestampNs uint64
	DriftNs     int64
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case "DomainMismatch":
		return fmt.Sprintf("validation: header domain %d does not match relay domain %d", e.Domain, e.Limit)
	case "MessageExceedsDomainLimit":
		return fmt.Sprintf("validation: message of %d bytes exceeds domain limit %d", e.Got, e.Limit)
	case "ChecksumRequired":
		return "validation: checksum required by domain policy but missing/invalid"
	case "ChecksumMismatch":
		return fmt.Sprintf("validation: checksum mismatch: expected 0x%08X, got 0x%08X", e.Expected, e.Actual)
	case "TimestampTooFarFuture":
		return fmt.Sprintf("validation: timestamp %d is %dns in the future, beyond max_future_drift", e.TimestampNs, e.DriftNs)
	case "TimestampTooOld":
		return fmt.Sprintf("validation: timestamp %d is %dns old, beyond max_age", e.TimestampNs, -e.DriftNs)
	case "UnknownTLVTypeInStrictDomain":
		return fmt.Sprintf("validation: unknown tlv type %d rejected under strict domain policy", e.TLVType)
	case "TLVSizeConstraintViolation":
		return fmt.Sprintf("validation: tlv type %d value of %d bytes violates its registered size constraint", e.TLVType, e.Got)
	default:
		return fmt.Sprintf("validation: %s", e.Kind)
	}
}

func errDomainMismatch(headerDomain, relayDomain uint8) error {
	return &ValidationError{Kind: "DomainMismatch", Domain: headerDomain, Limit: int(relayDomain)}
}
func errMessageExceedsDomainLimit(got, limit int) error {
	return &ValidationError{Kind: "MessageExceedsDomainLimit", Got: got, Limit: limit}
}
func errChecksumRequired() error { return &ValidationError{Kind: "ChecksumRequired"} }
func errChecksumMismatch(expected, actual uint32) error {
	return &ValidationError{Kind: "ChecksumMismatch", Expected: expected, Actual: actual}
}
func errTimestampTooFarFuture(ts uint64, driftNs int64) error {
	return &ValidationError{Kind: "TimestampTooFarFuture", TimestampNs: ts, DriftNs: driftNs}
}
func errTimestampTooOld(ts uint64, driftNs int64) error {
	return &ValidationError{Kind: "TimestampTooOld", TimestampNs: ts, DriftNs: driftNs}
}
func errUnknownTLVTypeStrict(t uint8) error {
	return &ValidationError{Kind: "UnknownTLVTypeInStrictDomain", TLVType: t}
}
func errTLVSizeConstraintViolation(t uint8, got int) error {
	return &ValidationError{Kind: "TLVSizeConstraintViolation", TLVType: t, Got: got}
}
