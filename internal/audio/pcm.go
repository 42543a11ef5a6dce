// Package audio decodes raw speech audio and plays it through the default
// output device.
package audio

import (
	"errors"
	"fmt"
	"time"
)

// ErrOddLength is returned when 16-bit PCM data has a dangling byte.
var ErrOddLength = errors.New("pcm data has odd length")

// Clip is decoded interleaved 16-bit audio.
type Clip struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// Frames returns the number of sample frames in the clip.
func (c Clip) Frames() int {
	if c.Channels <= 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Duration returns the playback length at the clip's sample rate.
func (c Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(c.Frames()) * time.Second / time.Duration(c.SampleRate)
}

// Empty reports whether the clip holds no audio.
func (c Clip) Empty() bool {
	return len(c.Samples) == 0
}

// DecodePCM16LE decodes little-endian signed 16-bit PCM.
func DecodePCM16LE(data []byte, sampleRate, channels int) (Clip, error) {
	if len(data)%2 != 0 {
		return Clip{}, ErrOddLength
	}
	if sampleRate <= 0 || channels <= 0 {
		return Clip{}, fmt.Errorf("invalid pcm format: %d Hz, %d channels", sampleRate, channels)
	}
	return Clip{
		Samples:    BytesToSamples(data),
		SampleRate: sampleRate,
		Channels:   channels,
	}, nil
}

// BytesToSamples converts raw PCM16 little-endian bytes to int16 samples.
func BytesToSamples(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
	return samples
}

// SamplesToBytes converts int16 samples to raw PCM16 little-endian bytes.
func SamplesToBytes(samples []int16) []byte {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		data[i*2] = byte(s)
		data[i*2+1] = byte(s >> 8)
	}
	return data
}

// Resample converts mono audio between sample rates by linear
// interpolation, which is adequate for speech.
func Resample(samples []int16, fromRate, toRate int) []int16 {
	if fromRate == toRate || len(samples) == 0 {
		return samples
	}

	ratio := float64(fromRate) / float64(toRate)
	newLen := int(float64(len(samples)) / ratio)
	if newLen == 0 {
		return []int16{}
	}

	result := make([]int16, newLen)
	for i := range result {
		srcPos := float64(i) * ratio
		srcIdx := int(srcPos)
		frac := srcPos - float64(srcIdx)

		if srcIdx >= len(samples)-1 {
			result[i] = samples[len(samples)-1]
		} else {
			s1 := float64(samples[srcIdx])
			s2 := float64(samples[srcIdx+1])
			result[i] = int16(s1 + frac*(s2-s1))
		}
	}
	return result
}

// WithSpeed returns a copy of the clip that plays speed times faster at the
// same sample rate. Pitch shifts with speed. Multi-channel clips are
// returned unchanged.
func (c Clip) WithSpeed(speed float64) Clip {
	if speed <= 0 || speed == 1 || c.Channels != 1 || c.SampleRate <= 0 {
		return c
	}
	from := int(float64(c.SampleRate) * speed)
	return Clip{
		Samples:    Resample(c.Samples, from, c.SampleRate),
		SampleRate: c.SampleRate,
		Channels:   c.Channels,
	}
}
