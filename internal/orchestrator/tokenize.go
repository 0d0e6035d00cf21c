package orchestrator

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxQueryKeywords caps how many query tokens relevance compares.
const maxQueryKeywords = 10

// #region stopwords
// stopwords holds common Russian and English words excluded from keyword
// extraction. Only words longer than three runes matter here.
var stopwords = map[string]bool{
	// english
	"about": true, "above": true, "after": true, "again": true, "also": true,
	"been": true, "being": true, "could": true, "does": true, "doing": true,
	"from": true, "have": true, "having": true, "here": true, "into": true,
	"just": true, "like": true, "more": true, "most": true, "much": true,
	"only": true, "other": true, "over": true, "should": true, "some": true,
	"such": true, "than": true, "that": true, "their": true, "them": true,
	"then": true, "there": true, "these": true, "they": true, "this": true,
	"those": true, "very": true, "want": true, "what": true, "when": true,
	"where": true, "which": true, "while": true, "will": true, "with": true,
	"would": true, "your": true, "please": true, "tell": true,
	// russian
	"было": true, "быть": true, "вами": true, "ваша": true,
	"ваше": true, "более": true, "всего": true, "всех": true, "даже": true,
	"если": true, "есть": true, "здесь": true, "именно": true, "когда": true,
	"которые": true, "который": true, "может": true, "можно": true, "меня": true,
	"надо": true, "нужно": true, "него": true, "нужен": true,
	"очень": true, "пожалуйста": true, "после": true, "потом": true, "почему": true,
	"тоже": true, "только": true, "также": true, "такой": true, "этот": true,
	"этого": true, "этом": true, "этой": true, "будет": true, "чтобы": true,
	"сколько": true, "какой": true, "какая": true, "какие": true, "зачем": true,
}

// extractKeywords splits text into unique lowercase tokens longer than three
// runes that are not stop words, in first-seen order. limit <= 0 means no cap.
func extractKeywords(text string, limit int) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool)
	var tokens []string
	for _, w := range words {
		if utf8.RuneCountInString(w) <= 3 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		tokens = append(tokens, w)
		if limit > 0 && len(tokens) == limit {
			break
		}
	}
	return tokens
}

// #endregion stopwords
