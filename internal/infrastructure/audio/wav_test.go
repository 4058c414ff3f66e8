package audio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"dreamweaver/internal/domain"
)

func TestEncodeWAV(t *testing.T) {
	buf := domain.SampleBuffer{
		Format:  domain.L16Mono24K,
		Samples: []float32{0, 0.5, -0.5},
	}

	data, err := EncodeWAV(buf)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	if len(data) != 44+6 {
		t.Fatalf("期待されるサイズ: 50, 実際: %d", len(data))
	}

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" || string(data[12:16]) != "fmt " || string(data[36:40]) != "data" {
		t.Errorf("チャンクIDが正しくありません: %q", data[:40])
	}

	le := binary.LittleEndian
	checks := []struct {
		name     string
		got      uint32
		expected uint32
	}{
		{"ChunkSize", le.Uint32(data[4:8]), 42},
		{"Subchunk1Size", le.Uint32(data[16:20]), 16},
		{"AudioFormat", uint32(le.Uint16(data[20:22])), 1},
		{"NumChannels", uint32(le.Uint16(data[22:24])), 1},
		{"SampleRate", le.Uint32(data[24:28]), 24000},
		{"ByteRate", le.Uint32(data[28:32]), 48000},
		{"BlockAlign", uint32(le.Uint16(data[32:34])), 2},
		{"BitsPerSample", uint32(le.Uint16(data[34:36])), 16},
		{"Subchunk2Size", le.Uint32(data[40:44]), 6},
	}
	for _, c := range checks {
		if c.got != c.expected {
			t.Errorf("%s: 期待値 %d, 実際 %d", c.name, c.expected, c.got)
		}
	}

	if !bytes.Equal(data[44:], []byte{0x00, 0x00, 0x00, 0x40, 0x00, 0xC0}) {
		t.Errorf("PCMデータが正しくありません: %x", data[44:])
	}
}

func TestEncodeWAV_RoundTrip(t *testing.T) {
	pcm := []byte{0x10, 0x00, 0xF0, 0xFF, 0xFF, 0x7F, 0x00, 0x80}
	buf, err := domain.DecodePCM16(pcm, domain.L16Mono24K)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	data, err := EncodeWAV(buf)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if !bytes.Equal(data[44:], pcm) {
		t.Errorf("元のPCMデータと一致しません: %x", data[44:])
	}
}

func TestEncodeWAV_InvalidFormat(t *testing.T) {
	if _, err := EncodeWAV(domain.SampleBuffer{}); err == nil {
		t.Error("不正なフォーマットでエラーが返されませんでした")
	}
}
