package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// JPEGMIMEType は、生成画像のMIMEタイプです
const JPEGMIMEType = "image/jpeg"

// ImageDataURI は、base64エンコードされた画像データをdata URIに埋め込みます
func ImageDataURI(mimeType, base64Data string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64Data)
}

// ParseImageDataURI は、base64形式のdata URIからMIMEタイプと画像データを取り出します
func ParseImageDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("data URIではありません")
	}

	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data URIにデータ部がありません")
	}

	mimeType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("base64形式のdata URIではありません")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("画像データのデコードに失敗: %w", err)
	}

	return mimeType, data, nil
}
