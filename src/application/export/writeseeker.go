package export

import (
	"io"

	"stem-session/src/lib/cerr"
)

var _ io.WriteSeeker = &memWriteSeeker{}

// memWriteSeeker collects a WAV encode in memory. The WAV encoder
// needs to seek back to patch up the header lengths, so a plain
// bytes.Buffer is not enough.
type memWriteSeeker struct {
	contents []byte
	position int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	end := m.position + len(p)
	if end > len(m.contents) {
		grown := make([]byte, end)
		copy(grown, m.contents)
		m.contents = grown
	}

	copy(m.contents[m.position:end], p)
	m.position = end

	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var newPosition int64

	switch whence {
	case io.SeekStart:
		newPosition = offset
	case io.SeekCurrent:
		newPosition = int64(m.position) + offset
	case io.SeekEnd:
		newPosition = int64(len(m.contents)) + offset
	default:
		return 0, cerr.Field("whence", whence).Error("Unrecognized seek whence value")
	}

	if newPosition < 0 {
		return 0, cerr.Field("offset", offset).Error("Seek before the start of the buffer")
	}

	m.position = int(newPosition)
	return newPosition, nil
}

func (m *memWriteSeeker) Bytes() []byte {
	return m.contents
}
