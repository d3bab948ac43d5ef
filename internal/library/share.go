package library

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ShareParam is the query parameter carrying shared problems.
const ShareParam = "data"

// ErrInvalidShareLink is returned when a link cannot be decoded.
var ErrInvalidShareLink = errors.New("invalid share link")

// ShareLink encodes problems into a link under base. The payload is the
// JSON array, percent-encoded with JavaScript encodeURIComponent rules and
// then base64-encoded, so links open in the browser edition as well.
func ShareLink(base string, problems ...Problem) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse share base %q: %w", base, err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(cloneProblems(problems)); err != nil {
		return "", fmt.Errorf("encode shared problems: %w", err)
	}
	payload := EncodeShareData(bytes.TrimRight(buf.Bytes(), "\n"))

	u.RawQuery = url.Values{ShareParam: {payload}}.Encode()
	u.Fragment = ""
	return u.String(), nil
}

// EncodeShareData returns base64(encodeURIComponent(json)).
func EncodeShareData(jsonText []byte) string {
	return base64.StdEncoding.EncodeToString([]byte(encodeURIComponent(string(jsonText))))
}

// ParseShareLink decodes a full link or a bare data parameter.
func ParseShareLink(link string) ([]Problem, error) {
	data, err := shareData(link)
	if err != nil {
		return nil, err
	}

	raw, err := decodeBase64(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShareLink, err)
	}
	text, err := url.PathUnescape(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShareLink, err)
	}

	problems, err := ParseSnapshot([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShareLink, err)
	}
	return problems, nil
}

// shareData extracts the base64 payload. Query decoding turns '+' into a
// space, which never occurs in base64, so spaces are mapped back.
func shareData(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidShareLink)
	}

	data := link
	if strings.Contains(link, "?") || strings.Contains(link, "://") || strings.HasPrefix(link, ShareParam+"=") {
		query := link
		if i := strings.Index(link, "?"); i >= 0 {
			query = link[i+1:]
		}
		if i := strings.Index(query, "#"); i >= 0 {
			query = query[:i]
		}
		values, err := url.ParseQuery(query)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidShareLink, err)
		}
		data = values.Get(ShareParam)
		if data == "" {
			return "", fmt.Errorf("%w: missing %q parameter", ErrInvalidShareLink, ShareParam)
		}
	} else if strings.Contains(data, "%") {
		unescaped, err := url.QueryUnescape(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidShareLink, err)
		}
		data = unescaped
	}

	return strings.ReplaceAll(data, " ", "+"), nil
}

func decodeBase64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

// encodeURIComponent escapes every byte except A-Z a-z 0-9 and -_.!~*'().
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if uriUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func uriUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
