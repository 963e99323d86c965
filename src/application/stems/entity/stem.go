package entity

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"stem-session/src/lib/werror"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// StemBuffer is one fully decoded stem held in memory. The underlying
// samples are written once at construction and never mutated after -
// every Streamer call hands out a fresh view over the same samples.
type StemBuffer struct {
	format beep.Format
	buffer *beep.Buffer
}

func NewStemBuffer(format beep.Format, samples beep.Streamer) StemBuffer {
	buffer := beep.NewBuffer(format)
	buffer.Append(samples)

	return StemBuffer{
		format: format,
		buffer: buffer,
	}
}

func (s StemBuffer) Format() beep.Format {
	return s.format
}

func (s StemBuffer) Len() int {
	return s.buffer.Len()
}

func (s StemBuffer) Duration() time.Duration {
	return s.format.SampleRate.D(s.buffer.Len())
}

// Streamer returns a seekable stream over the whole clip, positioned at
// sample 0. Consuming it does not consume the buffer.
func (s StemBuffer) Streamer() beep.StreamSeeker {
	return s.buffer.Streamer(0, s.buffer.Len())
}

// Encode writes the whole clip out as a WAV file. The buffer is
// immutable, so encoding the same stem twice produces identical bytes.
func (s StemBuffer) Encode(w io.WriteSeeker) error {
	if err := wav.Encode(w, s.Streamer(), s.format); err != nil {
		return werror.WrapError("Failed to encode stem buffer as WAV", err)
	}

	return nil
}

// StemName forms the stable identifier for the stem at the given
// position of the backend's output, e.g. "song_stem_1". Indexes are
// 1-based and follow backend output order.
func StemName(basename string, index int) string {
	return fmt.Sprintf("%s_stem_%d", basename, index)
}

func BasenameFromPath(audioPath string) string {
	fileName := filepath.Base(audioPath)
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
