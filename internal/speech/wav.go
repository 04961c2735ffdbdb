package speech

import (
	"bytes"
	"encoding/binary"
)

// wrapWAV prefixes raw little-endian PCM samples with a RIFF/WAVE header so
// the audio is playable without knowing the service's frame shape.
func wrapWAV(pcm []byte) []byte {
	var buf bytes.Buffer

	byteRate := pcmSampleRate * pcmChannels * pcmBitDepth / 8
	blockAlign := pcmChannels * pcmBitDepth / 8

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(pcmChannels))
	binary.Write(&buf, binary.LittleEndian, uint32(pcmSampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(pcmBitDepth))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}
