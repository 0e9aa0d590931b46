package reasons

import (
	"strings"

	"github.com/mozillazg/go-pinyin"
)

var pinyinArgs = func() pinyin.Args {
	a := pinyin.NewArgs()
	a.Fallback = func(r rune, _ pinyin.Args) []string {
		return []string{string(r)}
	}
	return a
}()

// PinyinKey returns a collation key for a category: Han characters are romanized
// and everything is lower-cased, so 芯片 sorts near "xin" rather than by code point.
func PinyinKey(category string) string {
	return strings.ToLower(strings.Join(pinyin.LazyPinyin(category, pinyinArgs), ""))
}
