package ingress

import "time"

// SampleSchedule decides when a collector runs the four-step pipeline:
// every message during the warm-up window after startup, then only every
// Nth message (spec §4.9: "warm-up window ... and on a sampled basis
// thereafter").
type SampleSchedule struct {
	WarmupDuration time.Duration
	SampleEvery    uint64 // validate 1-in-N after warm-up; 0 means never sample post-warmup
}

// DefaultSampleSchedule matches the teacher's conservative default posture
// for expensive post-startup checks: a generous warm-up, then light
// sampling rather than continuous validation.
func DefaultSampleSchedule() SampleSchedule {
	return SampleSchedule{WarmupDuration: 5 * time.Minute, SampleEvery: 1000}
}

// ShouldValidate reports whether the message at msgIndex (0-based, per
// source) arriving elapsed time after collector startup should run the
// four-step pipeline.
func (s SampleSchedule) ShouldValidate(elapsed time.Duration, msgIndex uint64) bool {
	if elapsed <= s.WarmupDuration {
		return true
	}
	if s.SampleEvery == 0 {
		return false
	}
	return msgIndex%s.SampleEvery == 0
}
