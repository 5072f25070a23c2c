package kanji

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"langromanizer/model"
)

func TestToRomaji(t *testing.T) {
	tests := []struct {
		kana  string
		style model.RomajiStyle
		want  string
	}{
		{"トーキョー", model.Hepburn, "tōkyō"},
		{"トーキョー", model.Passport, "tokyo"},
		{"トーキョー", model.Nippon, "tôkyô"},
		{"ワタシ", model.Hepburn, "watashi"},
		{"ワタシ", model.Nippon, "watasi"},
		{"がっこう", model.Hepburn, "gakkou"},
		{"まっちゃ", model.Hepburn, "matcha"},
		{"まっちゃ", model.Nippon, "mattya"},
		{"しんぶん", model.Hepburn, "shinbun"},
		{"しんぶん", model.Passport, "shimbun"},
		{"ふじさん", model.Hepburn, "fujisan"},
		{"ふじさん", model.Nippon, "huzisan"},
		{"じゅう", model.Hepburn, "juu"},
		{"じゅう", model.Nippon, "zyuu"},
		{"ヲ", model.Nippon, "wo"},
		{"ヲ", model.Hepburn, "o"},
		{"ファン", model.Hepburn, "fan"},
		{"あっ", model.Hepburn, "a'"},
		{"アッ!", model.Hepburn, "a'!"},
		{"えっあ", model.Hepburn, "e'a"},
		{"きって", model.Nippon, "kitte"},
		{"ABC", model.Hepburn, "ABC"},
	}

	for _, tt := range tests {
		t.Run(tt.kana+"/"+string(tt.style), func(t *testing.T) {
			assert.Equal(t, tt.want, ToRomaji(tt.kana, tt.style))
		})
	}
}

func TestKatakanaToHiragana(t *testing.T) {
	assert.Equal(t, "いりみないかわ", KatakanaToHiragana("イリミナイカワ"))
	assert.Equal(t, "らーめん", KatakanaToHiragana("ラーメン"))
}

func TestAllKana(t *testing.T) {
	assert.True(t, AllKana("あ"))
	assert.True(t, AllKana("ラーメン"))
	assert.False(t, AllKana("秋"))
	assert.False(t, AllKana("aア"))
	assert.False(t, AllKana(""))
}
