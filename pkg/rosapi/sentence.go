package rosapi

import (
	"strings"

	"github.com/newtron-network/rosdriver/pkg/util"
)

// Reply word tags sent by the device.
const (
	tagRe    = "!re"
	tagDone  = "!done"
	tagTrap  = "!trap"
	tagFatal = "!fatal"
)

// Attrs is one sentence's attribute map: RouterOS reports every value as a
// string on the wire.
type Attrs map[string]string

// Get returns the attribute value and whether it was present.
func (a Attrs) Get(key string) (string, bool) {
	v, ok := a[key]
	return v, ok
}

// sentence is one decoded reply sentence.
type sentence struct {
	tag    string // !re, !done, !trap or !fatal
	attrs  Attrs  // parsed =key=value words
	apiTag string // echoed .tag= value, empty if untagged
	extra  string // non-attribute payload words (e.g. !fatal reason)
}

// parseReply interprets the words of one reply sentence. The first word must
// be a reply tag; remaining words are attributes (=key=value), the echoed
// request tag (.tag=N), or bare payload words.
func parseReply(words []string) (*sentence, error) {
	if len(words) == 0 {
		return nil, util.NewFramingError("empty reply sentence")
	}

	s := &sentence{attrs: make(Attrs)}
	switch words[0] {
	case tagRe, tagDone, tagTrap, tagFatal:
		s.tag = words[0]
	default:
		return nil, util.NewFramingError("unknown reply word %q", words[0])
	}

	for _, w := range words[1:] {
		switch {
		case strings.HasPrefix(w, "="):
			key, value, _ := strings.Cut(w[1:], "=")
			s.attrs[key] = value
		case strings.HasPrefix(w, ".tag="):
			s.apiTag = w[len(".tag="):]
		default:
			if s.extra != "" {
				s.extra += " "
			}
			s.extra += w
		}
	}
	return s, nil
}

// commandWords builds the words for a command sentence: the command path,
// one =key=value word per argument (sorted for deterministic framing), query
// words as given, and the request tag.
func commandWords(path string, args Attrs, queries []string, tag string) []string {
	words := make([]string, 0, len(args)+len(queries)+2)
	words = append(words, path)
	for _, key := range sortedKeys(args) {
		words = append(words, "="+key+"="+args[key])
	}
	words = append(words, queries...)
	if tag != "" {
		words = append(words, ".tag="+tag)
	}
	return words
}

func sortedKeys(a Attrs) []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	util.SortNaturally(keys)
	return keys
}
