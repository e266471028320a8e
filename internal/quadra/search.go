package quadra

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Territory scopes which administrative keys participate in a search.
const (
	TerritoryTodos    = "todos"
	TerritoryBairro   = "bairro"
	TerritoryCidade   = "cidade"
	TerritoryDistrito = "distrito"
)

type SearchResult struct {
	Feature       *Feature
	Score         int
	MatchedFields []string
}

// foldKey lowercases and strips diacritics, so "cartão" and "cartao" name
// the same field. Only keys are folded; values keep their accents and are
// compared lowercased as typed.
func foldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

var streetKeys = []string{
	"rua", "avenida", "estrada", "logradouro", "endereco", "street", "address",
}

// Keys are matched by containment, not equality: datasets name fields
// "Cartão 29", "Rua Principal", "Número da Quadra" and so on.
func keyContains(k string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(k, w) {
			return true
		}
	}
	return false
}

// digitRun returns the first run of consecutive digits in s.
func digitRun(s string) string {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return s[start:i]
		}
	}
	if start >= 0 {
		return s[start:]
	}
	return ""
}

// stringValue renders a JSON scalar for matching. Objects and arrays are
// not searchable.
func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case bool:
		if t {
			return "true", true
		}
		return "false", true
	case interface{ String() string }: // json.Number
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}

// scoreField returns the score for one property against the query, or 0.
func scoreField(key, value, query, territory string) int {
	val := strings.ToLower(value)
	best := 0
	mark := func(s int) {
		if s > best {
			best = s
		}
	}

	switch k := foldKey(key); {
	case keyContains(k, "quadra", "cartao"):
		run := digitRun(val)
		switch {
		case val == query:
			mark(100)
		case run != "" && run == query:
			mark(95)
		case strings.Contains(val, query):
			mark(90)
		case run != "" && strings.Contains(run, query):
			mark(85)
		}
	case keyContains(k, streetKeys...):
		if val == query {
			mark(80)
		} else if strings.Contains(val, query) {
			mark(70)
		}
	case keyContains(k, "bairro"):
		if territory == TerritoryTodos || territory == TerritoryBairro {
			if val == query {
				mark(80)
			} else if strings.Contains(val, query) {
				mark(70)
			}
		}
	case keyContains(k, "cidade", "municipio"):
		if territory == TerritoryCidade {
			if val == query {
				mark(75)
			} else if strings.Contains(val, query) {
				mark(65)
			}
		}
	case keyContains(k, "distrito"):
		if territory == TerritoryDistrito {
			if val == query {
				mark(75)
			} else if strings.Contains(val, query) {
				mark(65)
			}
		}
	}
	return best
}

// Search scores every feature against a free-text query. A feature's score
// is the best of its field scores, not their sum, so one strong match isn't
// diluted by weak ones. Results come back highest score first; ties keep
// dataset order.
func Search(features []*Feature, query, territory string) []SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	if territory == "" {
		territory = TerritoryTodos
	}

	var results []SearchResult
	for _, f := range features {
		best := 0
		var matched []string
		for _, key := range f.Props.Keys() {
			raw, _ := f.Props.Get(key)
			val, ok := stringValue(raw)
			if !ok || val == "" {
				continue
			}
			if s := scoreField(key, val, query, territory); s > 0 {
				matched = append(matched, key)
				if s > best {
					best = s
				}
			}
		}
		if best > 0 && len(matched) > 0 {
			results = append(results, SearchResult{
				Feature:       f,
				Score:         best,
				MatchedFields: matched,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
