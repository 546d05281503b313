package keyfile

import (
	"strings"
	"testing"
)

func TestDecodeFallback(t *testing.T) {
	tests := []struct {
		name             string
		input            []byte
		expectedText     string
		expectedEncoding string
	}{
		{
			name:             "plain ascii",
			input:            []byte("*KEYWORD\n*END\n"),
			expectedText:     "*KEYWORD\n*END\n",
			expectedEncoding: "utf-8",
		},
		{
			name:             "valid utf-8 with multibyte runes",
			input:            []byte("$ 模型注释\n*NODE\n"),
			expectedText:     "$ 模型注释\n*NODE\n",
			expectedEncoding: "utf-8",
		},
		{
			name: "gbk encoded comment",
			// "模型" in GBK: 0xC4 0xA3 0xD0 0xCD
			input:            []byte{'$', ' ', 0xC4, 0xA3, 0xD0, 0xCD, '\n'},
			expectedText:     "$ 模型\n",
			expectedEncoding: "gbk",
		},
		{
			name:             "empty input",
			input:            []byte{},
			expectedText:     "",
			expectedEncoding: "utf-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, enc := DecodeFallback(tt.input)
			if enc != tt.expectedEncoding {
				t.Errorf("encoding = %q, want %q", enc, tt.expectedEncoding)
			}
			if text != tt.expectedText {
				t.Errorf("text = %q, want %q", text, tt.expectedText)
			}
		})
	}
}

func TestDecodeFallback_NeverFails(t *testing.T) {
	// 任意字节序列都应得到某种可用的解码结果
	inputs := [][]byte{
		{0xff},
		{0x80, 0x81, 0x82},
		{'$', 0xfe, '\n'},
	}

	for _, input := range inputs {
		text, enc := DecodeFallback(input)
		if enc == "" {
			t.Errorf("DecodeFallback(%v) returned empty encoding name", input)
		}
		if len(input) > 0 && text == "" && !strings.Contains(enc, "replace") && enc != "latin1" {
			t.Errorf("DecodeFallback(%v) returned empty text via %s", input, enc)
		}
	}
}
