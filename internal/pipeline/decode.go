package pipeline

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/traditionalchinese"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodePayload converts the raw response body to a UTF-8 string.
//
// The portal has historically published the dataset both as UTF-8 with a
// signature and as Big5, so decoding tries UTF-8 first and falls back to
// Big5. The Big5 decoder substitutes U+FFFD for byte sequences it cannot
// map instead of failing; encoding ambiguity alone never aborts a sync.
func decodePayload(raw []byte) (string, error) {
	trimmed := bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(trimmed) {
		return string(trimmed), nil
	}

	decoded, err := traditionalchinese.Big5.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("big5 fallback: %w", err)
	}
	return string(decoded), nil
}
