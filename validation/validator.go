package validation

import "torq.dev/core/wire"

// ValidatedMessage is the output of a successful Validate call: a parsed
// header plus zero-copy TLV views, carrying the policy that was applied so
// downstream code (sequence tracker, relay forwarding) doesn't re-derive it.
type ValidatedMessage struct {
	Header  wire.MessageHeader
	Payload []byte
	TLVs    []wire.TLV
	Policy  Policy
}

// Validator applies a ValidationConfig and per-domain Policy to raw wire
// bytes received on a specific domain's socket (spec §4.4).
type Validator struct {
	Config ValidationConfig
	Domain wire.RelayDomain
}

// New returns a Validator bound to one relay domain.
func New(cfg ValidationConfig, domain wire.RelayDomain) *Validator {
	return &Validator{Config: cfg, Domain: domain}
}

// Validate runs the full policy pipeline over raw bytes. nowNs is the
// validator's wall clock in nanoseconds, used for timestamp bound checks.
func (v *Validator) Validate(raw []byte, nowNs uint64) (*ValidatedMessage, error) {
	limit := v.Config.LimitFor(v.Domain)
	if limit > 0 && len(raw) > limit {
		return nil, errMessageExceedsDomainLimit(len(raw), limit)
	}

	header, payload, err := wire.ParseMessage(raw)
	if err != nil {
		return nil, err
	}
	if header.RelayDomain != v.Domain {
		return nil, errDomainMismatch(uint8(header.RelayDomain), uint8(v.Domain))
	}

	policy := PolicyFor(v.Domain)

	if policy.ChecksumRequired {
		if !wire.VerifyChecksum(header, payload) {
			return nil, errChecksumMismatch(header.Checksum, wire.ComputeChecksum(header, payload))
		}
	}

	if policy.TimestampBounds && v.Config.Timestamp.EnforceValidation {
		if err := checkTimestampBounds(header.TimestampNs, nowNs, v.Config.Timestamp); err != nil {
			return nil, err
		}
	}

	tlvs, err := ParseTLVsForDomain(payload, v.Domain, policy.Semantic)
	if err != nil {
		return nil, err
	}

	return &ValidatedMessage{Header: header, Payload: payload, TLVs: tlvs, Policy: policy}, nil
}

func checkTimestampBounds(timestampNs, nowNs uint64, cfg TimestampConfig) error {
	drift := int64(nowNs) - int64(timestampNs)
	maxFutureDriftNs := cfg.MaxFutureDrift.Nanoseconds()
	maxAgeNs := cfg.MaxAge.Nanoseconds()
	if drift < -maxFutureDriftNs {
		return errTimestampTooFarFuture(timestampNs, drift)
	}
	if drift > maxAgeNs {
		return errTimestampTooOld(timestampNs, drift)
	}
	return nil
}

// ParseTLVsForDomain parses every TLV in payload and rejects any whose type
// number routes (via wire.DomainFromTLVType) to a different domain than
// expected. Under SemanticFull (Execution), a type number inside the
// domain's range but absent from the registry is rejected outright rather
// than passed through, since execution payloads are never allowed to carry
// structurally unverified content (spec §4.9). Other domains tolerate
// unknown-but-in-range types for forward compatibility (spec §4.3).
func ParseTLVsForDomain(payload []byte, domain wire.RelayDomain, depth SemanticDepth) ([]wire.TLV, error) {
	tlvs, err := wire.ParseTLVs(payload)
	if err != nil {
		return nil, err
	}
	for _, t := range tlvs {
		if d, ok := wire.DomainFromTLVType(t.Type); ok && d != domain {
			return nil, errDomainMismatch(uint8(d), uint8(domain))
		}
		info, known := wire.Lookup(t.Type)
		if !known {
			if depth == SemanticFull {
				return nil, errUnknownTLVTypeStrict(t.Type)
			}
			continue
		}
		if !info.Size.Satisfies(len(t.Value)) {
			return nil, errTLVSizeConstraintViolation(t.Type, len(t.Value))
		}
	}
	return tlvs, nil
}
