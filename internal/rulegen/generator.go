// Package rulegen synthesizes quiz questions from raw text with frequency and
// pattern heuristics. It never fails: thin input yields fewer or no questions.
package rulegen

import (
	"regexp"
	"strings"

	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/textproc"
)

// Generator is the deterministic fallback question generator. It holds no
// per-request state and is safe for concurrent use.
type Generator struct {
	newSource    func() Source
	keyTermLimit int
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource makes every call draw from src. A src shared across goroutines
// must be safe for concurrent use.
func WithSource(src Source) Option {
	return func(g *Generator) {
		g.newSource = func() Source { return src }
	}
}

// WithSeed gives every call its own source seeded with seed, so identical
// requests produce identical output.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.newSource = func() Source { return NewSeededSource(seed) }
	}
}

// WithKeyTermLimit caps how many key terms are extracted per request.
func WithKeyTermLimit(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.keyTermLimit = n
		}
	}
}

// New creates a Generator. By default it draws from the process-wide
// random source.
func New(opts ...Option) *Generator {
	g := &Generator{
		newSource:    func() Source { return globalSource{} },
		keyTermLimit: textproc.DefaultKeyTermLimit,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate distributes the requested total across the requested types and
// builds each group from the request text.
func (g *Generator) Generate(req quiz.Request) quiz.QuestionSet {
	req = req.Normalize()
	return g.GenerateCounts(req.Text, quiz.Distribute(req.NumberOfQuestions, req.QuestionTypes))
}

// GenerateCounts builds a question set with at most counts[t] questions of
// each type t.
func (g *Generator) GenerateCounts(text string, counts quiz.Counts) quiz.QuestionSet {
	b := &builder{
		doc:  analyze(text, g.keyTermLimit),
		src:  g.newSource(),
		used: make(map[string]bool),
	}

	set := quiz.NewQuestionSet()
	set.MultipleChoice = b.multipleChoice(counts.Get(quiz.TypeMultipleChoice))
	set.TrueFalse = b.trueFalse(counts.Get(quiz.TypeTrueFalse))
	set.FillInTheBlank = b.fillInBlank(counts.Get(quiz.TypeFillInBlank))
	set.Identification = b.identification(counts.Get(quiz.TypeIdentification))
	return set
}

// document is the analyzed form of one request's text.
type document struct {
	sentences []string
	terms     []keyTerm
	entities  []string
}

type keyTerm struct {
	text    string
	pattern *regexp.Regexp
}

func analyze(text string, limit int) document {
	cleaned := textproc.CleanText(text)

	sentences := textproc.ExtractSentences(cleaned)
	if len(sentences) == 0 {
		sentences = textproc.ExtractSentencesLoose(cleaned)
	}

	var terms []keyTerm
	for _, t := range textproc.KeyTerms(cleaned, limit) {
		terms = append(terms, keyTerm{text: t, pattern: textproc.TermPattern(t)})
	}

	return document{
		sentences: sentences,
		terms:     terms,
		entities:  textproc.NamedEntities(cleaned),
	}
}

// firstTerm returns the first key term (in frequency order) that s contains.
func (d document) firstTerm(s string) (keyTerm, bool) {
	for _, t := range d.terms {
		if t.pattern.MatchString(s) {
			return t, true
		}
	}
	return keyTerm{}, false
}

func (d document) termTexts() []string {
	out := make([]string, len(d.terms))
	for i, t := range d.terms {
		out[i] = t.text
	}
	return out
}

// builder carries the per-request state shared by the four question builders.
type builder struct {
	doc document
	src Source

	// used holds lowercase terms already consumed as an MCQ pivot or a
	// fill-in-the-blank answer; identification skips them.
	used map[string]bool
}

func (b *builder) markUsed(term string) {
	b.used[strings.ToLower(term)] = true
}

func (b *builder) isUsed(term string) bool {
	return b.used[strings.ToLower(term)]
}
