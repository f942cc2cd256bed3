package alarm

// Tone is a sound currently playing.
type Tone interface {
	// Stop silences the tone.
	Stop()
}

// ToneOutput starts continuous tones. Implementations live outside the core
// and are injected, so tests can record bursts without an audio device.
type ToneOutput interface {
	StartTone(frequency float64) (Tone, error)
}
