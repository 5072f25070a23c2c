package kanji

// IsKana returns true if rune is Hiragana or Katakana
func IsKana(r rune) bool {
	return (r >= 0x3040 && r <= 0x309F) || (r >= 0x30A0 && r <= 0x30FF)
}

// AllKana reports whether s is non-empty and made of kana only.
func AllKana(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsKana(r) {
			return false
		}
	}
	return true
}

// KatakanaToHiragana converts katakana to hiragana. The prolonged sound mark
// and characters outside the convertible range are kept.
func KatakanaToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
