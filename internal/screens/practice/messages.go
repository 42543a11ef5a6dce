package practice

// playbackDoneMsg is sent when a playback started by the screen finishes.
type playbackDoneMsg struct {
	gen uint64
	err error
}
