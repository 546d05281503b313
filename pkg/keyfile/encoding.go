package keyfile

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// fallbackEncodings are tried in order when deck content is not valid
// UTF-8. GBK and GB18030 cover decks written by Chinese pre-processors,
// Latin-1 accepts any byte sequence as a last resort.
var fallbackEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"gbk", simplifiedchinese.GBK},
	{"gb18030", simplifiedchinese.GB18030},
	{"latin1", charmap.ISO8859_1},
}

// DecodeFallback decodes deck bytes for display, trying UTF-8 first and
// then each fallback encoding. It returns the decoded text and the name
// of the encoding that produced it. If nothing decodes cleanly, invalid
// UTF-8 bytes are replaced and the result is labeled "utf-8/replace".
//
// This is a read-only convenience for previews; the rewrite path itself
// only accepts valid UTF-8.
func DecodeFallback(data []byte) (string, string) {
	if utf8.Valid(data) {
		return string(data), "utf-8"
	}

	for _, fallback := range fallbackEncodings {
		decoded, err := fallback.enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		if bytes.ContainsRune(decoded, utf8.RuneError) {
			continue
		}
		return string(decoded), fallback.name
	}

	return string(bytes.ToValidUTF8(data, []byte("�"))), "utf-8/replace"
}
