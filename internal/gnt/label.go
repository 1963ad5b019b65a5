package gnt

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// DecodeLabel converts raw GB2312-family bytes into text. GNT labels are a
// single double-byte character in practice, but the conversion can legally
// produce more than one code point, so the result is a string.
//
// The decoder is GBK, the GB2312 superset, matching how the original dataset
// tooling reads the field. x/text substitutes U+FFFD for undecodable input
// rather than failing, so the substitution is what gets reported as an error.
func DecodeLabel(raw []byte) (string, error) {
	decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	if bytes.ContainsRune(decoded, utf8.RuneError) {
		return "", fmt.Errorf("not a decodable GB2312 sequence: % X", raw)
	}
	return string(decoded), nil
}

// EncodeLabel converts label text back into its GB2312-family byte form.
// Used when writing synthetic GNT data.
func EncodeLabel(label string) ([]byte, error) {
	encoded, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(label))
	if err != nil {
		return nil, fmt.Errorf("label %q is not representable in GB2312: %w", label, err)
	}
	return encoded, nil
}
