// File: internal/voice/capture/wav.go
package capture

import (
	"bytes"
	"encoding/binary"
)

// Format describes the PCM stream a Source emits.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// DefaultFormat matches the mono 16 kHz / 16-bit stream used for speech.
func DefaultFormat() Format {
	return Format{SampleRate: 16000, Channels: 1, BitsPerSample: 16}
}

// EncodeWAV wraps raw PCM samples in a RIFF/WAVE container.
func EncodeWAV(pcm []byte, f Format) []byte {
	byteRate := f.SampleRate * f.Channels * f.BitsPerSample / 8
	blockAlign := f.Channels * f.BitsPerSample / 8

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(f.Channels))
	binary.Write(&buf, binary.LittleEndian, uint32(f.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(f.BitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}
