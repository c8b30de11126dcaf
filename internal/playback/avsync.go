package playback

// SyncAction tells the player what to do with the next video frame.
type SyncAction int

const (
	// ActionDrop: video lags audio, drop a frame to catch up.
	ActionDrop SyncAction = -1
	// ActionDisplay: in sync, display normally.
	ActionDisplay SyncAction = 0
	// ActionWait: video is ahead of audio, repeat/wait.
	ActionWait SyncAction = 1
)

// AVSync tracks drift between the audio and video clocks. Positive drift
// means video is ahead.
type AVSync struct {
	thresholdMS float64
	audioTimeMS float64
	videoTimeMS float64
	driftMS     float64
}

// NewAVSync creates a sync helper; frames within thresholdMS are considered
// synced.
func NewAVSync(thresholdMS float64) *AVSync {
	return &AVSync{thresholdMS: thresholdMS}
}

// SetAudioTime updates the audio clock position.
func (s *AVSync) SetAudioTime(timeMS float64) {
	s.audioTimeMS = timeMS
	s.driftMS = s.videoTimeMS - s.audioTimeMS
}

// SetVideoTime updates the video clock position.
func (s *AVSync) SetVideoTime(timeMS float64) {
	s.videoTimeMS = timeMS
	s.driftMS = s.videoTimeMS - s.audioTimeMS
}

// Synced reports whether the clocks are within the threshold.
func (s *AVSync) Synced() bool {
	return abs(s.driftMS) <= s.thresholdMS
}

// Action recommends what to do with the next frame.
func (s *AVSync) Action() SyncAction {
	switch {
	case s.driftMS > s.thresholdMS:
		return ActionWait
	case s.driftMS < -s.thresholdMS:
		return ActionDrop
	default:
		return ActionDisplay
	}
}

// Drift returns the current drift in milliseconds.
func (s *AVSync) Drift() float64 { return s.driftMS }

// Reset clears both clocks.
func (s *AVSync) Reset() {
	s.audioTimeMS = 0
	s.videoTimeMS = 0
	s.driftMS = 0
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
