package orchestrator

// #region imports
import (
	"regexp"

	"github.com/danielpatrickdp/orchestra/internal/provider"
)

// #endregion

// #region capability-patterns

// capabilityPatterns detect what a query needs. Order is the order
// DetectCapabilities reports matches in.
var capabilityPatterns = []struct {
	capability provider.Capability
	re         *regexp.Regexp
}{
	{provider.CapabilityCode, wordRe(
		`код`, `программ`, `скрипт`, `функци`, `ошибк[аиу] в коде`, `баг`,
		`code`, `coding`, `program`, `script`, `function`, `debug`, `bug`,
		`python`, `javascript`, `typescript`, `golang`, `java`, `sql`, `regex`,
	)},
	{provider.CapabilityVision, wordRe(
		`изображ`, `картин`, `фото`, `скриншот`, `рисун`, `диаграмм`,
		`image`, `picture`, `photo`, `screenshot`, `diagram`, `chart`, `logo`,
	)},
	{provider.CapabilityAnalysis, wordRe(
		`анализ`, `проанализ`, `сравни`, `статистик`, `данн`, `отчет`, `отчёт`, `метрик`, `прогноз`,
		`analy`, `compare`, `statistic`, `data`, `report`, `metric`, `forecast`, `roi`, `kpi`,
	)},
	{provider.CapabilityLongContext, wordRe(
		`подробн`, `детальн`, `развернут`, `развёрнут`, `полн[ыоа][йем]? обзор`, `длинн`,
		`detailed`, `in detail`, `comprehensive`, `thorough`, `in-depth`, `long`,
	)},
}

// #endregion

// #region detect

// DetectCapabilities classifies the query into the capabilities it needs.
// Plain chat needs none.
func DetectCapabilities(query string) []provider.Capability {
	var out []provider.Capability
	for _, p := range capabilityPatterns {
		if p.re.MatchString(query) {
			out = append(out, p.capability)
		}
	}
	return out
}

// requiredCapabilities merges detected and caller-required capabilities,
// dropping duplicates and unknown names.
func requiredCapabilities(query string, extra []provider.Capability) []provider.Capability {
	seen := make(map[provider.Capability]bool)
	var out []provider.Capability
	add := func(c provider.Capability) {
		norm, ok := provider.ParseCapability(string(c))
		if !ok || seen[norm] {
			return
		}
		seen[norm] = true
		out = append(out, norm)
	}
	for _, c := range DetectCapabilities(query) {
		add(c)
	}
	for _, c := range extra {
		add(c)
	}
	return out
}

// #endregion
