package reader

import (
	"bytes"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"github.com/sirupsen/logrus"
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

// charsetDecoders maps detector charset names onto decoders. Only
// single-byte charsets are accepted from the statistical detector; UTF-16 is
// trusted only when announced by a BOM, since a statistical UTF-16 guess on
// single-byte data decodes to plausible-looking garbage.
var charsetDecoders = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.ISO8859_1,
	"ISO-8859-15":  charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
}

// decodeText converts raw bytes to UTF-8 text. A statistical detector
// proposes an encoding first; the proposal, UTF-8 and CP1252 are tried in
// order, stopping at the first clean decode. The caller
// falls back to replacement-character substitution separately, so a failure
// here never loses the file.
func decodeText(data []byte) (string, string, bool) {
	switch {
	case bytes.HasPrefix(data, bomUTF16LE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
		if text, err := decodeStrict(data, dec); err == nil {
			return text, "UTF-16LE", true
		}
	case bytes.HasPrefix(data, bomUTF16BE):
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
		if text, err := decodeStrict(data, dec); err == nil {
			return text, "UTF-16BE", true
		}
	case bytes.HasPrefix(data, bomUTF8):
		data = data[len(bomUTF8):]
	}

	if detected := detectCharset(data); detected != "" {
		if dec, ok := charsetDecoders[detected]; ok {
			if text, err := decodeStrict(data, dec); err == nil {
				return text, detected, true
			}
			logrus.WithField("charset", detected).Debug("detected encoding failed to decode, trying fallbacks")
		}
	}

	if utf8.Valid(data) {
		return string(data), "UTF-8", true
	}
	// Windows-1252 accepts every byte, so the ladder always terminates. It
	// supersedes a plain Latin-1 rung: the two agree outside 0x80-0x9F, and
	// inside that range CP1252 yields real glyphs where Latin-1 yields
	// control characters.
	if text, err := decodeStrict(data, charmap.Windows1252); err == nil {
		return text, "windows-1252", true
	}
	return "", "", false
}

// decodeLossy substitutes the replacement character for undecodable bytes.
// Last rung of the recovery ladder.
func decodeLossy(data []byte) string {
	if bytes.HasPrefix(data, bomUTF8) {
		data = data[len(bomUTF8):]
	}
	return string(bytes.ToValidUTF8(data, []byte("�")))
}

func detectCharset(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return ""
	}
	return result.Charset
}

func decodeStrict(data []byte, enc encoding.Encoding) (string, error) {
	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(decoded) {
		return "", transform.ErrShortSrc
	}
	return string(decoded), nil
}
