package orchestrator

// #region imports
import (
	"regexp"
	"strings"
)

// #endregion

// #region thresholds

const (
	baselineSentenceWords = 15.0
	neutralRelevance      = 50.0

	// ImproveThreshold triggers one rewrite pass when the composite is below it.
	ImproveThreshold = 70.0
	// SuggestionThreshold is the composite below which results carry suggestions.
	SuggestionThreshold = 80.0
)

// #endregion

// #region patterns

// wordRe matches any alternative starting at a word boundary. Go's \b only
// knows ASCII, so the boundary is spelled out to work for Cyrillic too.
func wordRe(alts ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(?:` + strings.Join(alts, "|") + `)`)
}

const wordEnd = `(?:[^\p{L}]|$)`

var sentenceSplit = regexp.MustCompile(`[.!?…]+`)

var technicalTerms = wordRe(
	`api`, `sdk`, `json`, `xml`, `http`, `sql`, `backend`, `frontend`, `framework`,
	`middleware`, `endpoint`, `deploy`, `docker`, `kubernetes`,
	`алгоритм`, `интерфейс`, `протокол`, `архитектур`, `инфраструктур`, `конфигурац`,
	`интеграц`, `транзакц`,
)

var (
	exampleMarker    = wordRe(`например`, `пример`, `к примеру`, `for example`, `for instance`, `example`, `e\.g\.`)
	stepMarker       = regexp.MustCompile(`(?im)^\s*(?:\d+[.)]|[-*•])\s+|(?:^|[^\p{L}])(?:шаг|во-первых|во-вторых|сначала|затем|далее|step|first(?:ly)?` + wordEnd + `|second(?:ly)?` + wordEnd + `|then` + wordEnd + `)`)
	referenceMarker  = regexp.MustCompile(`(?i)https?://|www\.|(?:^|[^\p{L}])(?:подробнее|источник|документаци|см\.|смотрите|see also|learn more|reference|documentation|source)`)
	conclusionMarker = wordRe(`итак`, `таким образом`, `в итоге`, `в заключение`, `в целом`, `вывод`, `in summary`, `in conclusion`, `to summarize`, `overall`, `therefore`)
)

var (
	politeMarker  = wordRe(`пожалуйста`, `спасибо`, `рад[аы]?`+wordEnd, `отличн`, `с удовольствием`, `please`, `thank`, `glad`, `happy to`, `great`, `excellent`)
	refusalMarker = wordRe(`не могу`, `не знаю`, `к сожалению`, `невозможно`, `cannot`, `can't`, `can not`, `unable`, `unfortunately`, `i don't know`, `sorry`)
)

// #endregion

// #region intents

type expectedElement struct {
	name string
	re   *regexp.Regexp
}

type queryIntent struct {
	name    string
	query   *regexp.Regexp
	expects []expectedElement
}

var (
	elemSteps      = expectedElement{"steps", stepMarker}
	elemMethod     = expectedElement{"method", wordRe(`способ`, `метод`, `необходимо`, `нужно`, `следует`, `можно`, `method`, `way`, `need to`, `should`, `you can`)}
	elemReason     = expectedElement{"reason", wordRe(`потому`, `причин`, `так как`, `поскольку`, `из-за`, `because`, `reason`, `due to`, `since`)}
	elemDefinition = expectedElement{"definition", wordRe(`это`, `является`, `означает`, `называ`, `представляет`, `is a`, `is an`, `refers to`, `means`, `defined as`)}
	elemExample    = expectedElement{"example", exampleMarker}
	elemNumber     = expectedElement{"number", regexp.MustCompile(`\d`)}
	elemUnit       = expectedElement{"unit", regexp.MustCompile(`(?i)[%$€₽]|(?:^|[^\p{L}])(?:руб|долл|евро|процент|usd|eur|dollar|percent)`)}
	elemFormula    = expectedElement{"formula", regexp.MustCompile(`(?i)[=×÷*/]|(?:^|[^\p{L}])(?:формул|formula)`)}
)

// intents map question shapes to the elements a complete answer contains.
var intents = []queryIntent{
	{"how", wordRe(`как`+wordEnd, `how`+wordEnd), []expectedElement{elemSteps, elemMethod}},
	{"why", wordRe(`почему`, `зачем`, `why`), []expectedElement{elemReason}},
	{"what-is", wordRe(`что такое`, `что это`, `what is`, `what are`, `what's`), []expectedElement{elemDefinition, elemExample}},
	{"how-much", wordRe(`сколько`, `стоимост`, `цен[аыу]`, `how much`, `how many`, `cost`, `price`), []expectedElement{elemNumber, elemUnit}},
	{"calculate", wordRe(`рассчита`, `расчет`, `расчёт`, `посчита`, `вычисл`, `calculate`, `compute`, `roi`), []expectedElement{elemFormula, elemNumber}},
}

// #endregion

// #region sub-scores

// ScoreClarity starts at 100, loses 2 points per word of average sentence
// length above 15 and 5 points per technical term.
func ScoreClarity(response string) float64 {
	score := 100.0

	var sentences, words int
	for _, s := range sentenceSplit.Split(response, -1) {
		n := len(strings.Fields(s))
		if n == 0 {
			continue
		}
		sentences++
		words += n
	}
	if sentences > 0 {
		avg := float64(words) / float64(sentences)
		if avg > baselineSentenceWords {
			score -= (avg - baselineSentenceWords) * 2
		}
	}

	score -= 5 * float64(len(technicalTerms.FindAllStringIndex(response, -1)))
	return clamp(score)
}

// ScoreRelevance is the share of query keywords (at most 10) that also occur
// in the response. A query with no usable keywords scores 50.
func ScoreRelevance(query, response string) float64 {
	keys := extractKeywords(query, maxQueryKeywords)
	if len(keys) == 0 {
		return neutralRelevance
	}

	have := make(map[string]bool)
	for _, t := range extractKeywords(response, 0) {
		have[t] = true
	}
	matched := 0
	for _, k := range keys {
		if have[k] {
			matched++
		}
	}
	return clamp(float64(matched) / float64(len(keys)) * 100)
}

// ScoreHelpfulness awards 25 points each for an example, steps, a reference
// and a conclusion.
func ScoreHelpfulness(response string) float64 {
	score := 0.0
	for _, re := range []*regexp.Regexp{exampleMarker, stepMarker, referenceMarker, conclusionMarker} {
		if re.MatchString(response) {
			score += 25
		}
	}
	return clamp(score)
}

// ScoreTone starts neutral, rewards politeness and penalizes refusals.
func ScoreTone(response string) float64 {
	score := 70.0
	if politeMarker.MatchString(response) {
		score += 20
	}
	if refusalMarker.MatchString(response) {
		score -= 30
	}
	return clamp(score)
}

// ScoreCompleteness is the share of intent-derived expected elements found in
// the response. Queries matching no intent score 100.
func ScoreCompleteness(query, response string) float64 {
	seen := make(map[string]bool)
	var expected []expectedElement
	for _, in := range intents {
		if !in.query.MatchString(query) {
			continue
		}
		for _, e := range in.expects {
			if !seen[e.name] {
				seen[e.name] = true
				expected = append(expected, e)
			}
		}
	}
	if len(expected) == 0 {
		return 100
	}

	found := 0
	for _, e := range expected {
		if e.re.MatchString(response) {
			found++
		}
	}
	return clamp(float64(found) / float64(len(expected)) * 100)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// #endregion

// #region suggestions

var suggestionRules = []struct {
	threshold float64
	score     func(Evaluation) float64
	message   string
}{
	{70, func(e Evaluation) float64 { return e.Clarity }, "Use shorter sentences and explain technical terms in plain language."},
	{70, func(e Evaluation) float64 { return e.Relevance }, "Address the key terms of the question directly."},
	{50, func(e Evaluation) float64 { return e.Helpfulness }, "Add a concrete example, numbered steps, a reference or a short conclusion."},
	{70, func(e Evaluation) float64 { return e.Tone }, "Use a friendlier tone and avoid refusals."},
	{70, func(e Evaluation) float64 { return e.Completeness }, "Cover every part of the question, including steps and figures where asked."},
}

func suggestionsFor(e Evaluation) []string {
	var out []string
	for _, r := range suggestionRules {
		if r.score(e) < r.threshold {
			out = append(out, r.message)
		}
	}
	return out
}

// #endregion

// #region evaluate

// QualityScorer is the heuristic Scorer. It never calls a model and keeps no
// state, so identical inputs give identical evaluations.
type QualityScorer struct{}

func NewQualityScorer() *QualityScorer { return &QualityScorer{} }

// Evaluate scores response against the query. Blank responses fail with
// ErrEmptyResponse.
func (q *QualityScorer) Evaluate(response string, in EvaluationInput) (Evaluation, error) {
	if strings.TrimSpace(response) == "" {
		return Evaluation{}, ErrEmptyResponse
	}

	e := Evaluation{
		Clarity:      ScoreClarity(response),
		Relevance:    ScoreRelevance(in.Query, response),
		Helpfulness:  ScoreHelpfulness(response),
		Tone:         ScoreTone(response),
		Completeness: ScoreCompleteness(in.Query, response),
	}
	e.Score = (e.Clarity + e.Relevance + e.Helpfulness + e.Tone + e.Completeness) / 5
	e.Suggestions = suggestionsFor(e)
	return e, nil
}

// #endregion
