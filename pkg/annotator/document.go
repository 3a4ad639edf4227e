// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package annotator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Document is the annotated output: the source count followed by the
// input document nested verbatim.
type Document struct {
	SourceCount   int `json:"source_count"`
	ProcessedData any `json:"processed_data"`
}

// Decode parses data as exactly one JSON value. Numbers are kept as
// json.Number so they re-encode with their original text. Empty input,
// trailing content after the value, and unpaired surrogate escapes are
// parse errors.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrParse)
		}
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	// A second Decode must hit EOF; anything else is trailing content.
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing characters at offset %d", ErrParse, dec.InputOffset())
	}

	// encoding/json turns unpaired surrogates into U+FFFD instead of failing.
	if err := checkSurrogates(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return v, nil
}

// checkSurrogates rejects \u escapes in D800-DFFF unless a high surrogate
// is immediately followed by a low one. data must already be valid JSON.
func checkSurrogates(data []byte) error {
	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if !inString {
			inString = c == '"'
			continue
		}
		if c == '"' {
			inString = false
			continue
		}
		if c != '\\' {
			continue
		}

		esc := i
		i++ // escaped character
		if data[i] != 'u' {
			continue
		}
		r, err := hexEscape(data, i+1)
		if err != nil {
			return err
		}
		i += 4 // last hex digit
		switch {
		case r < 0xD800 || r > 0xDFFF:
			continue
		case r >= 0xDC00:
			return fmt.Errorf("lone trailing surrogate in hex escape at offset %d", esc)
		}
		if len(data) < i+7 || data[i+1] != '\\' || data[i+2] != 'u' {
			return fmt.Errorf("lone leading surrogate in hex escape at offset %d", esc)
		}
		lo, err := hexEscape(data, i+3)
		if err != nil {
			return err
		}
		if lo < 0xDC00 || lo > 0xDFFF {
			return fmt.Errorf("lone leading surrogate in hex escape at offset %d", esc)
		}
		i += 6
	}
	return nil
}

// hexEscape parses the four hex digits of a \u escape starting at data[at].
func hexEscape(data []byte, at int) (rune, error) {
	if len(data) < at+4 {
		return 0, fmt.Errorf("truncated hex escape at offset %d", at)
	}
	n, err := strconv.ParseUint(string(data[at:at+4]), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid hex escape at offset %d: %w", at, err)
	}
	return rune(n), nil
}

// CountSources returns the number of direct elements when v is an array
// and 0 for every other JSON type. Nested arrays are not counted.
func CountSources(v any) int {
	if arr, ok := v.([]any); ok {
		return len(arr)
	}
	return 0
}

// Annotate wraps v in a Document.
func Annotate(v any) Document {
	return Document{
		SourceCount:   CountSources(v),
		ProcessedData: v,
	}
}

// Encode renders doc as indented JSON without a trailing newline.
// HTML characters are written as-is.
func Encode(doc Document, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
