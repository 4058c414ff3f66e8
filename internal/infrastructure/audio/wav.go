package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"dreamweaver/internal/domain"
)

// WAVMIMEType は、WAVファイルのMIMEタイプです
const WAVMIMEType = "audio/wav"

// wavHeaderSize は、RIFF/WAVEヘッダーのバイト数です
const wavHeaderSize = 44

// wavHeader は、PCM形式のRIFF/WAVEヘッダーです
type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

// WriteWAV は、サンプルバッファをPCM16のWAV形式で書き込みます
func WriteWAV(w io.Writer, buf domain.SampleBuffer) error {
	if err := buf.Format.Validate(); err != nil {
		return fmt.Errorf("音声フォーマットが不正です: %w", err)
	}

	data := domain.EncodePCM16(buf)
	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(wavHeaderSize - 8 + len(data)),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(buf.Format.Channels),
		SampleRate:    uint32(buf.Format.SampleRate),
		ByteRate:      uint32(buf.Format.BytesRate()),
		BlockAlign:    uint16(buf.Format.FrameSize()),
		BitsPerSample: uint16(buf.Format.Depth()),
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(len(data)),
	}

	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("WAVヘッダーの書き込みに失敗: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("WAVデータの書き込みに失敗: %w", err)
	}
	return nil
}

// EncodeWAV は、サンプルバッファをWAV形式のバイト列に変換します
func EncodeWAV(buf domain.SampleBuffer) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(wavHeaderSize + len(buf.Samples)*2)
	if err := WriteWAV(&out, buf); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
