package rulegen

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// polarityFlip rewrites the first match of re using replace.
type polarityFlip struct {
	re      *regexp.Regexp
	replace func(match string) string
}

func swap(a, b string) polarityFlip {
	return polarityFlip{
		re: regexp.MustCompile(`(?i)\b(` + a + `|` + b + `)\b`),
		replace: func(m string) string {
			if strings.EqualFold(m, a) {
				return b
			}
			return a
		},
	}
}

func oneWay(from, to string) polarityFlip {
	return polarityFlip{
		re:      regexp.MustCompile(`(?i)\b` + from + `\b`),
		replace: func(string) string { return to },
	}
}

// polarityFlips are tried in random order by CreateFalseStatement. For the
// two-word forms the longer alternative is listed first so "is not" wins
// over "is" at the same position.
var polarityFlips = []polarityFlip{
	swap("is not", "is"),
	swap("are not", "are"),
	oneWay("can", "cannot"),
	swap("will not", "will"),
	swap("always", "never"),
	swap("increases", "decreases"),
	oneWay("improves", "worsens"),
	oneWay("enhances", "reduces"),
	swap("positive", "negative"),
	swap("high", "low"),
	swap("more", "less"),
}

var genericFalseTemplates = []string{
	"%s is never mentioned in the text.",
	"The text states that %s does not exist.",
	"%s is described as irrelevant to the topic.",
}

// CreateFalseStatement manufactures a false version of sentence by flipping
// the polarity of one word. When no flip applies it returns a generic false
// claim about one of terms. It never returns sentence unchanged.
func CreateFalseStatement(sentence string, terms []string, src Source) string {
	for _, i := range perm(src, len(polarityFlips)) {
		if out, ok := polarityFlips[i].apply(sentence); ok {
			return out
		}
	}

	var out string
	if len(terms) > 0 {
		term := terms[intn(src, len(terms))]
		tmpl := genericFalseTemplates[intn(src, len(genericFalseTemplates))]
		out = capitalize(fmt.Sprintf(tmpl, term))
	} else {
		out = "The text contradicts the following: " + sentence
	}
	if out == sentence {
		out = "It is not true that " + sentence
	}
	return out
}

func (f polarityFlip) apply(s string) (string, bool) {
	loc := f.re.FindStringIndex(s)
	if loc == nil {
		return s, false
	}
	match := s[loc[0]:loc[1]]
	repl := matchCase(match, f.replace(strings.ToLower(match)))
	out := s[:loc[0]] + repl + s[loc[1]:]
	return out, out != s
}

// matchCase capitalizes repl when the original match started upper case.
func matchCase(match, repl string) string {
	r, _ := utf8.DecodeRuneInString(match)
	if unicode.IsUpper(r) {
		return capitalize(repl)
	}
	return repl
}
