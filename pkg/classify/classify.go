package classify

import (
	"strings"
)

// Kind 表示文件的分类结果
type Kind int

const (
	KindOther Kind = iota // 不做处理
	KindJunk              // 删除
	KindKeyFile           // 重写
)

// String 返回分类的字符串表示
func (k Kind) String() string {
	switch k {
	case KindJunk:
		return "junk"
	case KindKeyFile:
		return "keyfile"
	default:
		return "other"
	}
}

func IsJunk(name string, removeD3P bool) bool {
	lower := strings.ToLower(name)

	for _, ext := range junkExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}

	for _, prefix := range junkPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}

	if removeD3P && strings.HasPrefix(lower, extraJunkPrefix) {
		return true
	}

	return false
}

func IsKeyFile(name string) bool {
	for _, suffix := range keySuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}

	return false
}

func Classify(name string, removeD3P bool) Kind {
	switch {
	case IsJunk(name, removeD3P):
		return KindJunk
	case IsKeyFile(name):
		return KindKeyFile
	default:
		return KindOther
	}
}
