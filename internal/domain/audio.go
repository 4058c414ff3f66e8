package domain

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// AudioFormat は、ヘッダーなしPCM16ストリームのフォーマットを表します
type AudioFormat struct {
	SampleRate int
	Channels   int
}

// L16Mono24K は、音声生成サービスが返す固定フォーマット（audio/L16; rate=24000; channels=1）です
var L16Mono24K = AudioFormat{SampleRate: 24000, Channels: 1}

// pcm16Scale は、int16サンプルを[-1.0, 1.0)に正規化するための除数です
const pcm16Scale = 32768.0

// Depth はビット深度を返します
func (f AudioFormat) Depth() int {
	return 16
}

// FrameSize は1フレームあたりのバイト数を返します
func (f AudioFormat) FrameSize() int {
	return f.Channels * f.Depth() / 8
}

// BytesRate は1秒あたりのバイト数を返します
func (f AudioFormat) BytesRate() int {
	return f.SampleRate * f.FrameSize()
}

// Duration は、指定されたフレーム数の再生時間を返します
func (f AudioFormat) Duration(frames int) time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

// Validate は、フォーマットが有効かを検証します
func (f AudioFormat) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("サンプルレートは正の整数である必要があります: %d", f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("チャンネル数は正の整数である必要があります: %d", f.Channels)
	}
	return nil
}

func (f AudioFormat) String() string {
	return fmt.Sprintf("audio/L16; rate=%d; channels=%d", f.SampleRate, f.Channels)
}

// SampleBuffer は、正規化された浮動小数点の音声波形です
// Samples はチャンネルがインターリーブされた状態で格納され、読み取り専用として扱います
type SampleBuffer struct {
	Format  AudioFormat
	Samples []float32
}

// Frames はフレーム数（チャンネルあたりのサンプル数）を返します
func (b SampleBuffer) Frames() int {
	if b.Format.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Format.Channels
}

// Duration は再生時間を返します
func (b SampleBuffer) Duration() time.Duration {
	return b.Format.Duration(b.Frames())
}

// DecodeAudio は、base64エンコードされたPCM16 モノラル 24kHz のペイロードをデコードします
func DecodeAudio(payload string) (SampleBuffer, error) {
	return DecodeAudioWithFormat(payload, L16Mono24K)
}

// DecodeAudioWithFormat は、指定されたフォーマットでbase64ペイロードをデコードします
func DecodeAudioWithFormat(payload string, format AudioFormat) (SampleBuffer, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return SampleBuffer{}, &DecodeError{Reason: "base64のデコードに失敗", Err: err}
	}
	return DecodePCM16(data, format)
}

// DecodePCM16 は、リトルエンディアンのPCM16バイト列を正規化されたサンプルに変換します
func DecodePCM16(data []byte, format AudioFormat) (SampleBuffer, error) {
	if err := format.Validate(); err != nil {
		return SampleBuffer{}, &DecodeError{Reason: "フォーマットが不正", Err: err}
	}

	frameSize := format.FrameSize()
	if len(data)%frameSize != 0 {
		return SampleBuffer{}, &DecodeError{
			Reason: fmt.Sprintf("バイト数 %d がフレームサイズ %d の倍数ではありません", len(data), frameSize),
			Err:    ErrMalformedPayload,
		}
	}

	samples := make([]float32, len(data)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float32(v) / pcm16Scale
	}

	return SampleBuffer{Format: format, Samples: samples}, nil
}

// EncodePCM16 は、正規化されたサンプルをリトルエンディアンのPCM16バイト列に量子化します
func EncodePCM16(buf SampleBuffer) []byte {
	data := make([]byte, len(buf.Samples)*2)
	for i, s := range buf.Samples {
		v := math.Round(float64(s) * pcm16Scale)
		if v > math.MaxInt16 {
			v = math.MaxInt16
		} else if v < math.MinInt16 {
			v = math.MinInt16
		}
		binary.LittleEndian.PutUint16(data[i*2:], uint16(int16(v)))
	}
	return data
}
