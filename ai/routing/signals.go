package routing

import (
	"regexp"
	"strings"
)

// Signal extraction over normalized message text. All extractors are pure
// functions of the message; they never mutate registry descriptors.

var (
	nonWordRe    = regexp.MustCompile(`[^a-z0-9 ]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	personNameRe = regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`)
)

// normalizeMessage lowercases the message, folds underscores and punctuation
// into spaces, and collapses whitespace. "employee_number" and
// "employee number" normalize identically.
func normalizeMessage(message string) string {
	s := strings.ToLower(message)
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = nonWordRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func tokenize(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}

// termWeight scores a matched vocabulary term by specificity: multi-word
// phrases carry more evidence than single common words, and long single
// words get a small bump.
func termWeight(term string) float64 {
	tokens := strings.Count(term, " ") + 1
	if tokens > 1 {
		w := 1.0 + 1.5*float64(tokens-1)
		if w > 4.0 {
			w = 4.0
		}
		return w
	}
	if len(term) >= 9 {
		return 1.5
	}
	return 1.0
}

// matchTerm reports whether term (already normalized) occurs in tokens as a
// consecutive token run. Token-wise matching avoids substring hits like
// "contract" inside "contractor".
func matchTerm(tokens []string, term string) bool {
	termTokens := strings.Split(term, " ")
	n := len(termTokens)
	if n == 0 || n > len(tokens) {
		return false
	}
	for i := 0; i+n <= len(tokens); i++ {
		matched := true
		for j := 0; j < n; j++ {
			if tokens[i+j] != termTokens[j] {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// ExtractKeywordSignals matches every agent's vocabulary against the message
// and emits one signal per matched term. Each signal names the candidate
// agent, the matched term, and its weight.
func ExtractKeywordSignals(message string, registry *AgentRegistry) []ClassificationSignal {
	tokens := tokenize(normalizeMessage(message))
	if len(tokens) == 0 {
		return nil
	}

	var signals []ClassificationSignal
	for _, desc := range registry.Descriptors() {
		for _, kw := range desc.Keywords {
			term := normalizeMessage(kw)
			if term == "" || !matchTerm(tokens, term) {
				continue
			}
			signals = append(signals, ClassificationSignal{
				Source:         SourceKeyword,
				CandidateAgent: desc.ID,
				Weight:         termWeight(term),
				MatchedTerms:   []string{term},
			})
		}
	}
	return signals
}

var operationVerbs = []struct {
	op    Operation
	verbs []string
}{
	{OperationCreate, []string{"create", "add", "new", "register", "onboard", "hire"}},
	{OperationUpdate, []string{"update", "modify", "change", "edit", "assign", "set"}},
	{OperationDelete, []string{"delete", "remove", "terminate", "deactivate"}},
	{OperationRead, []string{"show", "list", "get", "find", "search", "display", "view", "what", "who", "which"}},
}

// ExtractOperationType infers the CRUD intent of the message. Checks run in a
// fixed order (create, update, delete, read) so that "add a new invoice and
// show it" resolves to create.
func ExtractOperationType(message string) Operation {
	tokens := tokenize(normalizeMessage(message))
	if len(tokens) == 0 {
		return OperationUnknown
	}
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	for _, group := range operationVerbs {
		for _, v := range group.verbs {
			if set[v] {
				return group.op
			}
		}
	}
	return OperationUnknown
}

// Capitalized spans ending in an organization suffix are company names, not
// people.
var orgSuffixes = map[string]bool{
	"corp": true, "corporation": true, "inc": true, "llc": true, "ltd": true,
	"company": true, "solutions": true, "technologies": true, "systems": true,
	"group": true, "consulting": true,
}

// Common sentence-initial words that pass the capitalized-pair pattern but
// are not names. Every operation verb belongs here: "Onboard Tina" starts
// with an imperative, not a first name.
var nameStopwords = func() map[string]bool {
	m := map[string]bool{
		"the": true, "this": true, "that": true, "please": true,
		"can": true, "could": true, "would": true, "for": true, "with": true,
	}
	for _, group := range operationVerbs {
		for _, v := range group.verbs {
			m[v] = true
		}
	}
	return m
}()

// partOfOrgName reports whether the text following a capitalized pair
// continues a capitalized run that ends in an organization suffix, as in
// "Acme Global Corp" where the pair only covered "Acme Global".
func partOfOrgName(rest string) bool {
	for _, tok := range strings.Fields(rest) {
		tok = strings.Trim(tok, ".,!?")
		if tok == "" || tok[0] < 'A' || tok[0] > 'Z' {
			return false
		}
		if orgSuffixes[strings.ToLower(tok)] {
			return true
		}
	}
	return false
}

// EntityContext is a detected person name plus the tokens surrounding it.
type EntityContext struct {
	PersonName    string
	ContextWindow []string
}

// ExtractEntityContext finds person-name candidates in the raw message.
// A candidate is two consecutive capitalized words that is neither an
// organization name nor led by a common sentence word. The context window
// spans up to six tokens on each side of the name.
func ExtractEntityContext(message string) []EntityContext {
	var out []EntityContext
	start := 0
	for start < len(message) {
		loc := personNameRe.FindStringIndex(message[start:])
		if loc == nil {
			break
		}
		m := [2]int{start + loc[0], start + loc[1]}
		name := message[m[0]:m[1]]
		parts := strings.Fields(name)
		first := strings.ToLower(parts[0])
		second := strings.ToLower(parts[1])
		if nameStopwords[first] {
			// "Onboard Tina Miles": drop the verb and retry from the
			// second word so the actual name still pairs up.
			start = m[0] + strings.Index(name, parts[1])
			continue
		}
		start = m[1]
		if orgSuffixes[second] || partOfOrgName(message[m[1]:]) {
			continue
		}

		before := tokenize(normalizeMessage(message[:m[0]]))
		if len(before) > 6 {
			before = before[len(before)-6:]
		}
		afterTokens := tokenize(normalizeMessage(message[m[1]:]))
		if len(afterTokens) > 6 {
			afterTokens = afterTokens[:6]
		}
		window := make([]string, 0, len(before)+len(afterTokens))
		window = append(window, before...)
		window = append(window, afterTokens...)

		out = append(out, EntityContext{
			PersonName:    name,
			ContextWindow: window,
		})
	}
	return out
}

var greetings = map[string]bool{
	"hi": true, "hello": true, "hey": true, "yo": true, "greetings": true,
	"good morning": true, "good afternoon": true, "good evening": true,
	"thanks": true, "thank you": true, "bye": true, "goodbye": true,
}

// IsGreeting reports whether the message is pure social chatter with no
// routable intent.
func IsGreeting(message string) bool {
	normalized := normalizeMessage(message)
	if normalized == "" {
		return false
	}
	if greetings[normalized] {
		return true
	}
	// "hi there", "hello!" style openers with nothing of substance after.
	tokens := tokenize(normalized)
	if len(tokens) <= 3 && greetings[tokens[0]] {
		rest := strings.Join(tokens[1:], " ")
		switch rest {
		case "", "there", "again", "everyone", "all", "team":
			return true
		}
	}
	return false
}
