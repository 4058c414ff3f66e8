package domain

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"
)

func TestDecodeAudio(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected []float32
	}{
		{
			name:     "ゼロ",
			data:     []byte{0x00, 0x00},
			expected: []float32{0},
		},
		{
			name:     "正の最大値",
			data:     []byte{0xFF, 0x7F},
			expected: []float32{32767.0 / 32768.0},
		},
		{
			name:     "負の最小値",
			data:     []byte{0x00, 0x80},
			expected: []float32{-1.0},
		},
		{
			name:     "リトルエンディアン",
			data:     []byte{0x00, 0x40, 0x00, 0xC0},
			expected: []float32{0.5, -0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := DecodeAudio(base64.StdEncoding.EncodeToString(tt.data))
			if err != nil {
				t.Fatalf("予期しないエラー: %v", err)
			}
			if buf.Format != L16Mono24K {
				t.Errorf("期待されるフォーマット: %v, 実際のフォーマット: %v", L16Mono24K, buf.Format)
			}
			if len(buf.Samples) != len(tt.expected) {
				t.Fatalf("期待されるサンプル数: %d, 実際のサンプル数: %d", len(tt.expected), len(buf.Samples))
			}
			for i, want := range tt.expected {
				if buf.Samples[i] != want {
					t.Errorf("サンプル[%d]: 期待値 %v, 実際 %v", i, want, buf.Samples[i])
				}
			}
		})
	}
}

func TestDecodeAudio_Empty(t *testing.T) {
	buf, err := DecodeAudio("")
	if err != nil {
		t.Fatalf("空のペイロードでエラーが返されました: %v", err)
	}
	if len(buf.Samples) != 0 {
		t.Errorf("空のバッファが期待されましたが、%d サンプルが返されました", len(buf.Samples))
	}
	if buf.Format.SampleRate != 24000 || buf.Format.Channels != 1 {
		t.Errorf("フォーマットが正しくありません: %v", buf.Format)
	}
}

func TestDecodeAudio_OddLength(t *testing.T) {
	_, err := DecodeAudio(base64.StdEncoding.EncodeToString([]byte{0x01, 0x02, 0x03}))

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("DecodeError が期待されましたが、%v が返されました", err)
	}
	if !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("ErrMalformedPayload が期待されましたが、%v が返されました", err)
	}
}

func TestDecodeAudio_InvalidBase64(t *testing.T) {
	_, err := DecodeAudio("not*base64!")

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("DecodeError が期待されましたが、%v が返されました", err)
	}
}

func TestDecodeAudioWithFormat_Stereo(t *testing.T) {
	format := AudioFormat{SampleRate: 48000, Channels: 2}

	// 2バイトはステレオのフレーム境界に揃っていない
	_, err := DecodeAudioWithFormat(base64.StdEncoding.EncodeToString([]byte{0x00, 0x40}), format)
	if !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("ErrMalformedPayload が期待されましたが、%v が返されました", err)
	}

	buf, err := DecodeAudioWithFormat(base64.StdEncoding.EncodeToString([]byte{0x00, 0x40, 0x00, 0xC0}), format)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if buf.Frames() != 1 {
		t.Errorf("期待されるフレーム数: 1, 実際のフレーム数: %d", buf.Frames())
	}
}

func TestDecodePCM16_InvalidFormat(t *testing.T) {
	_, err := DecodePCM16([]byte{0x00, 0x00}, AudioFormat{SampleRate: 0, Channels: 1})

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("DecodeError が期待されましたが、%v が返されました", err)
	}
}

func TestEncodePCM16_RoundTrip(t *testing.T) {
	original := []float32{0, 0.25, -0.25, 0.999, -1.0, 0.123456}

	encoded := EncodePCM16(SampleBuffer{Format: L16Mono24K, Samples: original})
	decoded, err := DecodeAudio(base64.StdEncoding.EncodeToString(encoded))
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	for i, s := range original {
		diff := math.Abs(float64(decoded.Samples[i]) - float64(s))
		if diff > 1.0/32768.0 {
			t.Errorf("サンプル[%d]: 期待値 %v, 実際 %v (差 %v)", i, s, decoded.Samples[i], diff)
		}
	}
}

func TestDecodeAudio_AllInt16RoundTrip(t *testing.T) {
	data := make([]byte, 65536*2)
	for i := 0; i < 65536; i++ {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(int16(i+math.MinInt16)))
	}

	decoded, err := DecodeAudio(base64.StdEncoding.EncodeToString(data))
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if len(decoded.Samples) != 65536 {
		t.Fatalf("期待されるサンプル数: 65536, 実際: %d", len(decoded.Samples))
	}

	reencoded := EncodePCM16(decoded)
	mismatches := 0
	for i := 0; i < 65536; i++ {
		want := int(int16(binary.LittleEndian.Uint16(data[i*2:])))
		got := int(int16(binary.LittleEndian.Uint16(reencoded[i*2:])))
		if diff := got - want; diff > 1 || diff < -1 {
			if mismatches < 5 {
				t.Errorf("サンプル %d: 期待値 %d, 実際 %d", i, want, got)
			}
			mismatches++
		}
	}
	if mismatches > 0 {
		t.Errorf("±1を超える不一致: %d / 65536", mismatches)
	}
}

func TestEncodePCM16_Clamp(t *testing.T) {
	encoded := EncodePCM16(SampleBuffer{Format: L16Mono24K, Samples: []float32{2.0, -2.0}})
	decoded, err := DecodePCM16(encoded, L16Mono24K)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	if decoded.Samples[0] != 32767.0/32768.0 {
		t.Errorf("正のクランプが正しくありません: %v", decoded.Samples[0])
	}
	if decoded.Samples[1] != -1.0 {
		t.Errorf("負のクランプが正しくありません: %v", decoded.Samples[1])
	}
}

func TestSampleBuffer_Duration(t *testing.T) {
	buf := SampleBuffer{Format: L16Mono24K, Samples: make([]float32, 12000)}

	if buf.Duration() != 500*time.Millisecond {
		t.Errorf("期待される再生時間: %v, 実際の再生時間: %v", 500*time.Millisecond, buf.Duration())
	}
	if L16Mono24K.BytesRate() != 48000 {
		t.Errorf("期待されるバイトレート: 48000, 実際のバイトレート: %d", L16Mono24K.BytesRate())
	}
	if L16Mono24K.String() != "audio/L16; rate=24000; channels=1" {
		t.Errorf("フォーマット文字列が正しくありません: %s", L16Mono24K.String())
	}
}
