package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Category
	}{
		{"latin", "hello world", Latin},
		{"latin with punctuation", "Don't stop, 2024!", Latin},
		{"empty", "", Latin},
		{"digits only", "123 456", Latin},
		{"hiragana", "こんにちは", Japanese},
		{"katakana", "カタカナ", Japanese},
		{"prolonged mark", "ー", Japanese},
		{"kanji and kana", "夜に駆ける", Japanese},
		{"han only", "你好世界", Chinese},
		{"hangul", "안녕하세요", Korean},
		{"hangul with spaces", "사랑 해요", Korean},
		{"latin and hangul", "I love 너", LatinKorean},
		{"latin and han", "Hello 世界", LatinChinese},
		{"latin and kana", "Baby ありがとう", LatinJapanese},
		{"latin kana and han", "Tokyo 夜に", LatinJapanese},
		{"latin hangul and han", "love 사랑 愛", LatinMixed},
		{"all three cjk", "愛 あい 사랑", MixedCJK},
		{"han and hangul", "愛 사랑", MixedCJK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassifyRune(t *testing.T) {
	assert.Equal(t, Japanese, ClassifyRune('あ'))
	assert.Equal(t, Japanese, ClassifyRune('ア'))
	assert.Equal(t, Chinese, ClassifyRune('愛'))
	assert.Equal(t, Korean, ClassifyRune('한'))
	assert.Equal(t, Latin, ClassifyRune('a'))
	assert.Equal(t, Latin, ClassifyRune(' '))
	assert.Equal(t, Latin, ClassifyRune('、'))
}

func TestRequiresRomanization(t *testing.T) {
	assert.False(t, RequiresRomanization("(oh oh) 1, 2, 3..."))
	assert.False(t, RequiresRomanization("「」、。"))
	assert.True(t, RequiresRomanization("(oh) 君の名は"))
	assert.True(t, RequiresRomanization("안녕"))
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "latin+korean", LatinKorean.String())
	assert.Equal(t, "unknown", Category(42).String())
}
