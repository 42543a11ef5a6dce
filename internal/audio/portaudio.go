package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"
)

// FramesPerBuffer is the blocking write size handed to PortAudio.
const FramesPerBuffer = 1024

// PortAudioSink plays clips on the default output device using a blocking
// PortAudio stream. Only one clip plays at a time.
type PortAudioSink struct {
	logger *zap.Logger

	// play serializes access to the device.
	play sync.Mutex
}

// NewPortAudioSink initializes PortAudio. Close must be called to release it.
func NewPortAudioSink(logger *zap.Logger) (*PortAudioSink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortAudioSink{logger: logger.Named("audio")}, nil
}

func (s *PortAudioSink) Play(ctx context.Context, clip Clip) error {
	if clip.Empty() {
		return nil
	}

	s.play.Lock()
	defer s.play.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	buf := make([]int16, FramesPerBuffer*clip.Channels)
	stream, err := portaudio.OpenDefaultStream(0, clip.Channels, float64(clip.SampleRate), FramesPerBuffer, buf)
	if err != nil {
		return fmt.Errorf("open output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start output stream: %w", err)
	}

	s.logger.Debug("playing clip",
		zap.Int("sample_rate", clip.SampleRate),
		zap.Int("channels", clip.Channels),
		zap.Duration("duration", clip.Duration()),
	)

	for off := 0; off < len(clip.Samples); off += len(buf) {
		select {
		case <-ctx.Done():
			// Abort drops whatever is still queued in the device.
			if err := stream.Abort(); err != nil {
				s.logger.Warn("abort output stream", zap.Error(err))
			}
			return ctx.Err()
		default:
		}

		n := copy(buf, clip.Samples[off:])
		clear(buf[n:])

		if err := stream.Write(); err != nil && !errors.Is(err, portaudio.OutputUnderflowed) {
			_ = stream.Abort()
			return fmt.Errorf("write output stream: %w", err)
		}
	}

	// Stop waits for the queued buffers to drain.
	if err := stream.Stop(); err != nil {
		return fmt.Errorf("stop output stream: %w", err)
	}
	return nil
}

// Close terminates PortAudio.
func (s *PortAudioSink) Close() error {
	return portaudio.Terminate()
}
