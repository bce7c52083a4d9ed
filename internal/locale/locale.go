package locale

import (
	"fmt"
	"strings"
)

// Locale selects the language of labels and status messages
type Locale string

const (
	Chinese Locale = "zh"
	English Locale = "en"
)

// Default is the locale used when none is configured
const Default = Chinese

// Catalog holds every user-visible string of the client
type Catalog struct {
	Labels map[string]string

	NoFileSelected string
	Uploading      string
	Recognized     string
	Succeeded      string
	FailedPrefix   string

	NoArtifactInfo    string
	NarrationLoading  string
	NarrationFallback string

	// Format strings taking the HTTP status code
	RecognitionHTTPError string
	NarrationHTTPError   string

	RecognitionFailed string
	NarrationFailed   string
}

var catalogs = map[Locale]Catalog{
	Chinese: {
		Labels: map[string]string{
			"artifact_name": "文物名称",
			"artifact_type": "类型",
			"confidence":    "置信度",
			"description":   "描述",
			"era":           "年代",
			"image_path":    "临时图片路径",
		},
		NoFileSelected:       "❌ 请先选择一个图片文件。",
		Uploading:            "⏳ 正在上传图片并识别...",
		Recognized:           "✅ 图片识别成功，正在生成文物讲解...",
		Succeeded:            "🎉 文物讲解生成成功！",
		FailedPrefix:         "❌ 操作失败: ",
		NoArtifactInfo:       "未识别到文物关键信息。",
		NarrationLoading:     "正在努力加载...",
		NarrationFallback:    "未能获取讲解文案。请检查后端服务和 API 密钥。",
		RecognitionHTTPError: "图像识别服务错误: %d",
		NarrationHTTPError:   "讲解生成服务错误: %d",
		RecognitionFailed:    "图片识别失败。",
		NarrationFailed:      "讲解生成失败。",
	},
	English: {
		Labels: map[string]string{
			"artifact_name": "Artifact name",
			"artifact_type": "Type",
			"confidence":    "Confidence",
			"description":   "Description",
			"era":           "Era",
			"image_path":    "Temporary image path",
		},
		NoFileSelected:       "❌ Please select an image file first.",
		Uploading:            "⏳ Uploading image and recognizing...",
		Recognized:           "✅ Image recognized, generating narration...",
		Succeeded:            "🎉 Narration generated!",
		FailedPrefix:         "❌ Operation failed: ",
		NoArtifactInfo:       "No artifact information recognized.",
		NarrationLoading:     "Loading...",
		NarrationFallback:    "Could not get the narration. Check the backend services and API key.",
		RecognitionHTTPError: "image recognition service error: %d",
		NarrationHTTPError:   "narration service error: %d",
		RecognitionFailed:    "Image recognition failed.",
		NarrationFailed:      "Narration generation failed.",
	},
}

// Parse validates a locale name; the empty string selects Default
func Parse(s string) (Locale, error) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	if l == "" {
		return Default, nil
	}
	if _, ok := catalogs[l]; !ok {
		return "", fmt.Errorf("unsupported locale: %s", s)
	}
	return l, nil
}

// Lookup returns the catalog for l, falling back to Default
func Lookup(l Locale) Catalog {
	if c, ok := catalogs[l]; ok {
		return c
	}
	return catalogs[Default]
}

// Label returns the display label for a field, or the key itself
func (c Catalog) Label(key string) string {
	if label, ok := c.Labels[key]; ok {
		return label
	}
	return key
}
