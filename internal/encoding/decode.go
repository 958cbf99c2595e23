// Package encoding normalizes API response bodies and uploaded files to UTF-8.
package encoding

import (
	"bytes"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ToUTF8 returns body decoded to UTF-8. Some legacy API gateways answer errors in
// a single-byte charset, and bank statement exports are usually Windows-1252.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Valid UTF-8 is returned unchanged
//  3. Heuristic detection via chardet
//  4. Windows-1252
func ToUTF8(body []byte) []byte {
	switch {
	case bytes.HasPrefix(body, bomUTF8):
		return body[len(bomUTF8):]
	case bytes.HasPrefix(body, bomUTF16LE):
		return decode(body, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM))
	case bytes.HasPrefix(body, bomUTF16BE):
		return decode(body, unicode.UTF16(unicode.BigEndian, unicode.UseBOM))
	case utf8.Valid(body):
		return body
	}

	result, err := chardet.NewTextDetector().DetectBest(body)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return body
		case "ISO-8859-9":
			return decode(body, charmap.ISO8859_9)
		}
	}

	return decode(body, charmap.Windows1252)
}

func decode(body []byte, enc encoding.Encoding) []byte {
	out, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return body
	}

	return out
}
