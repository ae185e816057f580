// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

// Package fitshdr reads the primary header of a FITS file: 2880-byte blocks
// of 80-column card images, ending at the END card. Only the header is read;
// data units are never touched, so reading the header of a large raw frame
// is cheap.
package fitshdr

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	blockSize = 2880
	cardSize  = 80
)

// ErrNotFITS is returned when the first card is not SIMPLE.
var ErrNotFITS = errors.New("fitshdr: not a FITS file (missing SIMPLE card)")

// ErrNoEnd is returned when the header blocks run out before an END card.
var ErrNoEnd = errors.New("fitshdr: missing END card")

// Card is one parsed header card. Value is string, int64, float64, or bool
// depending on the card syntax; commentary cards (COMMENT, HISTORY, blank
// keyword) have a nil Value and their text in Comment.
type Card struct {
	Keyword string
	Value   any
	Comment string
}

// Header is an ordered set of cards with keyword lookup. Duplicate keywords
// keep the first occurrence for lookup but remain in the card list.
type Header struct {
	cards []Card
	index map[string]int
}

// ReadFile reads the primary header from the FITS file at path.
func ReadFile(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fitshdr: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses header blocks from r until the END card.
func Read(r io.Reader) (*Header, error) {
	h := &Header{index: make(map[string]int)}
	block := make([]byte, blockSize)
	first := true

	for {
		if _, err := io.ReadFull(r, block); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, ErrNoEnd
			}
			return nil, fmt.Errorf("fitshdr: reading header block: %w", err)
		}

		for i := 0; i+cardSize <= blockSize; i += cardSize {
			card := string(block[i : i+cardSize])
			keyword := strings.TrimRight(card[:8], " ")

			if first {
				if keyword != "SIMPLE" {
					return nil, ErrNotFITS
				}
				first = false
			}

			if keyword == "END" {
				return h, nil
			}
			if keyword == "" && strings.TrimSpace(card[8:]) == "" {
				continue
			}

			c, err := parseCard(keyword, card)
			if err != nil {
				return nil, err
			}
			if _, dup := h.index[c.Keyword]; !dup && c.Keyword != "" {
				h.index[c.Keyword] = len(h.cards)
			}
			h.cards = append(h.cards, c)
		}
	}
}

// parseCard splits one 80-column card image into keyword, value, and comment.
func parseCard(keyword, card string) (Card, error) {
	// Commentary cards have no value indicator.
	if keyword == "COMMENT" || keyword == "HISTORY" || keyword == "" || card[8:10] != "= " {
		return Card{Keyword: keyword, Comment: strings.TrimRight(card[8:], " ")}, nil
	}

	rest := card[10:]

	// Quoted string: value runs to the closing quote, '' is a literal quote.
	if trimmed := strings.TrimLeft(rest, " "); len(trimmed) > 0 && trimmed[0] == '\'' {
		val, comment, err := parseString(trimmed[1:])
		if err != nil {
			return Card{}, fmt.Errorf("fitshdr: card %s: %w", keyword, err)
		}
		return Card{Keyword: keyword, Value: val, Comment: comment}, nil
	}

	// Unquoted value runs to the comment slash or end of card.
	valStr := rest
	comment := ""
	if slash := strings.IndexByte(rest, '/'); slash >= 0 {
		valStr = rest[:slash]
		comment = strings.TrimSpace(rest[slash+1:])
	}
	valStr = strings.TrimSpace(valStr)

	switch valStr {
	case "":
		return Card{Keyword: keyword, Comment: comment}, nil
	case "T":
		return Card{Keyword: keyword, Value: true, Comment: comment}, nil
	case "F":
		return Card{Keyword: keyword, Value: false, Comment: comment}, nil
	}

	if i, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return Card{Keyword: keyword, Value: i, Comment: comment}, nil
	}
	// FITS allows FORTRAN-style exponents (1.0D3).
	if f, err := strconv.ParseFloat(strings.Replace(valStr, "D", "E", 1), 64); err == nil {
		return Card{Keyword: keyword, Value: f, Comment: comment}, nil
	}

	return Card{}, fmt.Errorf("fitshdr: card %s: unparseable value %q", keyword, valStr)
}

// parseString consumes a FITS string value after the opening quote.
func parseString(s string) (val, comment string, err error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\'' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			b.WriteByte('\'')
			i++
			continue
		}
		rest := s[i+1:]
		if slash := strings.IndexByte(rest, '/'); slash >= 0 {
			comment = strings.TrimSpace(rest[slash+1:])
		}
		// Trailing blanks inside the quotes are not significant.
		return strings.TrimRight(b.String(), " "), comment, nil
	}
	return "", "", errors.New("unterminated string value")
}

// Has reports whether the header contains keyword.
func (h *Header) Has(keyword string) bool {
	_, ok := h.index[keyword]
	return ok
}

// Keywords returns the card keywords in header order, commentary cards included.
func (h *Header) Keywords() []string {
	out := make([]string, len(h.cards))
	for i, c := range h.cards {
		out[i] = c.Keyword
	}
	return out
}

// Card returns the first card for keyword.
func (h *Header) Card(keyword string) (Card, bool) {
	i, ok := h.index[keyword]
	if !ok {
		return Card{}, false
	}
	return h.cards[i], true
}

// Str returns the string value of keyword. Non-string values are rendered
// with their natural formatting, matching how loosely typed instrument
// headers are written in practice.
func (h *Header) Str(keyword string) (string, error) {
	c, ok := h.Card(keyword)
	if !ok {
		return "", fmt.Errorf("fitshdr: missing card %s", keyword)
	}
	switch v := c.Value.(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case bool:
		if v {
			return "T", nil
		}
		return "F", nil
	}
	return "", fmt.Errorf("fitshdr: card %s has no value", keyword)
}

// Int returns the integer value of keyword.
func (h *Header) Int(keyword string) (int64, error) {
	c, ok := h.Card(keyword)
	if !ok {
		return 0, fmt.Errorf("fitshdr: missing card %s", keyword)
	}
	switch v := c.Value.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("fitshdr: card %s: %w", keyword, err)
		}
		return i, nil
	}
	return 0, fmt.Errorf("fitshdr: card %s is not an integer", keyword)
}

// Float returns the floating-point value of keyword. Integer and numeric
// string values convert.
func (h *Header) Float(keyword string) (float64, error) {
	c, ok := h.Card(keyword)
	if !ok {
		return 0, fmt.Errorf("fitshdr: missing card %s", keyword)
	}
	switch v := c.Value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("fitshdr: card %s: %w", keyword, err)
		}
		return f, nil
	}
	return 0, fmt.Errorf("fitshdr: card %s is not numeric", keyword)
}

// Bool returns the logical value of keyword.
func (h *Header) Bool(keyword string) (bool, error) {
	c, ok := h.Card(keyword)
	if !ok {
		return false, fmt.Errorf("fitshdr: missing card %s", keyword)
	}
	if v, ok := c.Value.(bool); ok {
		return v, nil
	}
	return false, fmt.Errorf("fitshdr: card %s is not a logical", keyword)
}
