package dictionary

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome-dict/uni"
)

// Names of the supported system dictionaries.
const (
	IPA     = "ipa"
	UniDic  = "uni"
	Default = IPA
)

// Load returns the kagome system dictionary registered under name.
// The embedded dictionaries are decoded on first use, which takes a while.
func Load(name string) (*dict.Dict, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", IPA:
		return ipa.Dict(), nil
	case UniDic:
		return uni.Dict(), nil
	}
	return nil, fmt.Errorf("unknown dictionary %q (want %q or %q)", name, IPA, UniDic)
}
