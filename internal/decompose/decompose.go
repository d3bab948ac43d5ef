// Package decompose splits raw model output into named sections using
// literal marker strings and strips markdown code fences from code sections.
//
// Every function here is pure and total: any input string yields a result,
// nothing panics, and the marker vocabulary is supplied by the caller.
package decompose

import (
	"sort"
	"strings"
)

const fence = "```"

// Split partitions raw at the first occurrence of marker. When marker is
// absent (or empty), before is the whole input and after is sentinel.
func Split(raw, marker, sentinel string) (before, after string) {
	before, after, _ = split(raw, marker, sentinel)
	return before, after
}

func split(raw, marker, sentinel string) (string, string, bool) {
	if marker == "" {
		return raw, sentinel, false
	}
	i := strings.Index(raw, marker)
	if i < 0 {
		return raw, sentinel, false
	}
	return raw[:i], raw[i+len(marker):], true
}

// StripFences removes every opening fence carrying one of labels
// ("```lean", "```js", ...) and every bare fence, then trims surrounding
// whitespace. The result is a fixed point: StripFences(StripFences(x)) ==
// StripFences(x).
func StripFences(text string, labels ...string) string {
	openers := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimPrefix(l, fence)
		if l != "" {
			openers = append(openers, fence+l)
		}
	}
	// "```javascript" must go before "```js".
	sort.SliceStable(openers, func(i, j int) bool { return len(openers[i]) > len(openers[j]) })

	for {
		next := text
		for _, o := range openers {
			next = strings.ReplaceAll(next, o, "")
		}
		next = strings.ReplaceAll(next, fence, "")
		next = strings.TrimSpace(next)
		if next == text {
			return next
		}
		text = next
	}
}

// Sections describes a two-part response: an optional leading marker that
// introduces the first part, the marker separating the parts, the sentinel
// used when the separator is missing, and the fence labels of the second
// (code) part.
type Sections struct {
	Lead     string
	Split    string
	Sentinel string
	Fences   []string
}

// Apply decomposes raw. When the separator is missing, first is raw
// verbatim and second is Sentinel. Otherwise the first occurrence of Lead
// is removed from the first part, which is then trimmed, and the second
// part is fence-stripped. found reports whether the separator was present.
func (s Sections) Apply(raw string) (first, second string, found bool) {
	before, after, found := split(raw, s.Split, s.Sentinel)
	if !found {
		return raw, after, false
	}
	if s.Lead != "" {
		before = strings.Replace(before, s.Lead, "", 1)
	}
	return strings.TrimSpace(before), StripFences(after, s.Fences...), true
}
