package domain

import (
	"fmt"
	"strings"
)

// AspectRatio は生成画像のアスペクト比を表す定数です
type AspectRatio int

const (
	AspectRatioWide AspectRatio = iota
	AspectRatioSquare
	AspectRatioTall
	AspectRatioLandscape
	AspectRatioPortrait
)

// aspectRatioData はAspectRatioのデータを保持します
type aspectRatioData struct {
	Value       string
	DisplayName string
}

// aspectRatios は各AspectRatioのデータを定義します
var aspectRatios = []aspectRatioData{
	{"16:9", "ワイド"},
	{"1:1", "正方形"},
	{"9:16", "縦長"},
	{"4:3", "横長"},
	{"3:4", "縦向き"},
}

// String はAspectRatioの値（例: 16:9）を返します
func (a AspectRatio) String() string {
	if int(a) >= 0 && int(a) < len(aspectRatios) {
		return aspectRatios[a].Value
	}
	return "16:9"
}

// DisplayName はAspectRatioの日本語名を返します
func (a AspectRatio) DisplayName() string {
	if int(a) >= 0 && int(a) < len(aspectRatios) {
		return aspectRatios[a].DisplayName
	}
	return "ワイド"
}

// IsLandscape は横長の比率かどうかを判定します
func (a AspectRatio) IsLandscape() bool {
	return a == AspectRatioWide || a == AspectRatioLandscape
}

// IsPortrait は縦長の比率かどうかを判定します
func (a AspectRatio) IsPortrait() bool {
	return a == AspectRatioTall || a == AspectRatioPortrait
}

// AllAspectRatios はすべてのAspectRatioを返します
func AllAspectRatios() []AspectRatio {
	return []AspectRatio{
		AspectRatioWide,
		AspectRatioSquare,
		AspectRatioTall,
		AspectRatioLandscape,
		AspectRatioPortrait,
	}
}

// ParseAspectRatio は文字列からAspectRatioを取得します
func ParseAspectRatio(value string) (AspectRatio, error) {
	for _, ratio := range AllAspectRatios() {
		if ratio.String() == value {
			return ratio, nil
		}
	}
	supported := make([]string, 0, len(aspectRatios))
	for _, ratio := range AllAspectRatios() {
		supported = append(supported, fmt.Sprintf("%s（%s）", ratio.String(), ratio.DisplayName()))
	}
	return AspectRatioWide, fmt.Errorf("サポートされていないアスペクト比です: %s（使用可能: %s）", value, strings.Join(supported, ", "))
}
