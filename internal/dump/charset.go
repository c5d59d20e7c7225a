package dump

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

type byteOrderMark struct {
	prefix  []byte
	charset string
	// nil: strip the mark and read the rest as UTF-8.
	decoder encoding.Encoding
}

var marks = []byteOrderMark{
	{prefix: []byte{0xEF, 0xBB, 0xBF}, charset: "UTF-8"},
	{prefix: []byte{0xFF, 0xFE}, charset: "UTF-16LE", decoder: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{prefix: []byte{0xFE, 0xFF}, charset: "UTF-16BE", decoder: unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
}

// Single-byte charsets chardet may report for spreadsheet exports.
var singleByte = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-15":  charmap.ISO8859_15,
	"ISO-8859-9":   charmap.ISO8859_9,
}

const fallbackCharset = "windows-1252"

// utf8Reader returns r decoded to UTF-8 and the name of the charset it was
// read as. A byte order mark wins; valid UTF-8 is passed through; otherwise
// chardet picks a single-byte charset, defaulting to Windows-1252.
func utf8Reader(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	for _, m := range marks {
		if !bytes.HasPrefix(head, m.prefix) {
			continue
		}

		if m.decoder == nil {
			_, _ = br.Discard(len(m.prefix))
			return br, m.charset, nil
		}

		return transform.NewReader(br, m.decoder.NewDecoder()), m.charset, nil
	}

	if utf8.Valid(completeRunes(head)) {
		return br, "UTF-8", nil
	}

	if res, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		if res.Charset == "UTF-8" {
			return br, res.Charset, nil
		}

		if enc, ok := singleByte[res.Charset]; ok {
			return transform.NewReader(br, enc.NewDecoder()), res.Charset, nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), fallbackCharset, nil
}

// completeRunes drops a multi-byte rune cut off at the end of a full sniff
// buffer.
func completeRunes(head []byte) []byte {
	if len(head) < sniffSize {
		return head
	}

	for i := len(head) - 1; i >= 0 && i >= len(head)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(head[i]) {
			continue
		}

		if !utf8.FullRune(head[i:]) {
			return head[:i]
		}

		break
	}

	return head
}
