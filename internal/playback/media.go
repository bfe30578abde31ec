package playback

// MediaElement is the local playback surface the engine corrects. The real
// implementation wraps an HLS player; the engine only ever needs its clock
// and its play/pause/seek controls.
type MediaElement interface {
	CurrentTime() float64
	Seek(seconds float64)
	Play() error
	Pause()
	Paused() bool
}
