// Package playback holds the frame ring buffer that decouples decode from
// display during preview playback, and the A/V sync helper the host player
// uses to decide whether to drop or repeat frames.
package playback

// FrameInfo is decoded-frame metadata. Pixel data stays with the host; Handle
// is the host's reference to it, returned on eviction so the host can release
// the resource.
type FrameInfo struct {
	FrameNumber    int
	PTSMillis      float64
	DurationMillis float64
	Width          int
	Height         int
	Handle         int
	IsKeyframe     bool
}

// State describes buffer fill health.
type State string

const (
	// StateStarving: buffer is empty, decode more immediately.
	StateStarving State = "starving"
	// StateLow: below the low-water mark.
	StateLow State = "low"
	// StateHealthy: enough frames buffered.
	StateHealthy State = "healthy"
	// StateFull: at capacity, decoding can slow down.
	StateFull State = "full"
)

// Stats is a snapshot of playback health.
type Stats struct {
	FrameCount       int
	Capacity         int
	FramesDropped    int
	FramesDecoded    int
	FramesDisplayed  int
	State            State
	BufferDurationMS float64
}

// Buffer is a ring of decoded frames ordered by presentation time. It is
// single-consumer, single-producer and not safe for concurrent use; the host
// drives it from its render loop.
type Buffer struct {
	frames       []FrameInfo
	capacity     int
	targetSize   int
	lowWaterMark int
	fps          float64

	stats Stats

	// lastDisplayed is a frame number, valid only when hasDisplayed is set.
	lastDisplayed int
	hasDisplayed  bool

	playing    bool
	startTime  float64 // host clock ms when playback started
	startFrame int
}

// NewBuffer creates a frame buffer. Target fill is 75% of capacity; the
// low-water mark is 25%.
func NewBuffer(capacity int, fps float64) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	b := &Buffer{
		frames:       make([]FrameInfo, 0, capacity),
		capacity:     capacity,
		targetSize:   capacity * 3 / 4,
		lowWaterMark: capacity / 4,
		fps:          fps,
	}
	b.stats.Capacity = capacity
	b.updateState()
	return b
}

// Push inserts a decoded frame in PTS order. If the buffer is full the oldest
// frame is evicted and its handle returned for the host to release.
func (b *Buffer) Push(frame FrameInfo) (evicted int, didEvict bool) {
	b.stats.FramesDecoded++

	if len(b.frames) >= b.capacity {
		evicted = b.frames[0].Handle
		didEvict = true
		b.frames = b.frames[1:]
	}

	pos := len(b.frames)
	for i, f := range b.frames {
		if f.PTSMillis > frame.PTSMillis {
			pos = i
			break
		}
	}
	b.frames = append(b.frames, FrameInfo{})
	copy(b.frames[pos+1:], b.frames[pos:])
	b.frames[pos] = frame

	b.updateState()
	return evicted, didEvict
}

// FrameForTime pops the frame to display at the given presentation time: the
// one with the largest PTS not after it. Frames older than the returned frame
// are dropped. Returns false when nothing new is displayable (empty buffer,
// no frame due yet, or the due frame was already shown).
func (b *Buffer) FrameForTime(currentTimeMS float64) (FrameInfo, bool) {
	bestIdx := -1
	for i, f := range b.frames {
		if f.PTSMillis <= currentTimeMS && (bestIdx < 0 || f.PTSMillis > b.frames[bestIdx].PTSMillis) {
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return FrameInfo{}, false
	}

	frame := b.frames[bestIdx]
	if b.hasDisplayed && b.lastDisplayed == frame.FrameNumber {
		return FrameInfo{}, false
	}

	// Everything before the displayed frame is late and dropped.
	b.stats.FramesDropped += bestIdx
	b.frames = b.frames[bestIdx+1:]

	b.lastDisplayed = frame.FrameNumber
	b.hasDisplayed = true
	b.stats.FramesDisplayed++
	b.updateState()
	return frame, true
}

// FrameByNumber looks a buffered frame up without consuming it (scrubbing).
func (b *Buffer) FrameByNumber(frameNumber int) (FrameInfo, bool) {
	for _, f := range b.frames {
		if f.FrameNumber == frameNumber {
			return f, true
		}
	}
	return FrameInfo{}, false
}

// StartPlayback anchors the playback clock at the given frame and host time.
func (b *Buffer) StartPlayback(startFrame int, currentTimeMS float64) {
	b.playing = true
	b.startTime = currentTimeMS
	b.startFrame = startFrame
	b.hasDisplayed = false
}

// StopPlayback halts the playback clock.
func (b *Buffer) StopPlayback() {
	b.playing = false
}

// Playing reports whether the playback clock is running.
func (b *Buffer) Playing() bool { return b.playing }

// PresentationTime converts a host clock time to a presentation timestamp.
func (b *Buffer) PresentationTime(currentTimeMS float64) float64 {
	if !b.playing {
		return 0
	}
	elapsed := currentTimeMS - b.startTime
	return float64(b.startFrame)*(1000/b.fps) + elapsed
}

// TargetFrame is the frame number that should be on screen at the given host
// time.
func (b *Buffer) TargetFrame(currentTimeMS float64) int {
	if !b.playing {
		return b.startFrame
	}
	elapsed := currentTimeMS - b.startTime
	return b.startFrame + int(elapsed*b.fps/1000)
}

// Clear empties the buffer and returns every held handle for release.
func (b *Buffer) Clear() []int {
	handles := make([]int, len(b.frames))
	for i, f := range b.frames {
		handles[i] = f.Handle
	}
	b.frames = b.frames[:0]
	b.hasDisplayed = false
	b.updateState()
	return handles
}

// Stats returns a snapshot of playback health.
func (b *Buffer) Stats() Stats { return b.stats }

// NeedsFrames reports whether the decoder should keep producing.
func (b *Buffer) NeedsFrames() bool { return len(b.frames) < b.targetSize }

// Full reports whether the buffer is at capacity.
func (b *Buffer) Full() bool { return len(b.frames) >= b.capacity }

// NextDecodeFrame is the frame number the decoder should produce next.
func (b *Buffer) NextDecodeFrame() int {
	if len(b.frames) == 0 {
		return b.startFrame
	}
	return b.frames[len(b.frames)-1].FrameNumber + 1
}

// EarliestFrame returns the lowest buffered frame number.
func (b *Buffer) EarliestFrame() (int, bool) {
	if len(b.frames) == 0 {
		return 0, false
	}
	return b.frames[0].FrameNumber, true
}

// LatestFrame returns the highest buffered frame number.
func (b *Buffer) LatestFrame() (int, bool) {
	if len(b.frames) == 0 {
		return 0, false
	}
	return b.frames[len(b.frames)-1].FrameNumber, true
}

func (b *Buffer) updateState() {
	count := len(b.frames)
	b.stats.FrameCount = count

	switch {
	case count == 0:
		b.stats.State = StateStarving
	case count < b.lowWaterMark:
		b.stats.State = StateLow
	case count >= b.capacity:
		b.stats.State = StateFull
	default:
		b.stats.State = StateHealthy
	}

	if count > 0 {
		first := b.frames[0]
		last := b.frames[count-1]
		b.stats.BufferDurationMS = last.PTSMillis - first.PTSMillis + last.DurationMillis
	} else {
		b.stats.BufferDurationMS = 0
	}
}
