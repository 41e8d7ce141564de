package address

import "regexp"

// wordL and wordR bracket a token with letter-aware boundaries
// regexp \b only knows ASCII so Cyrillic tokens need explicit classes
const (
	wordL = `(^|[^\p{L}\p{N}])`
	wordR = `([^\p{L}\p{N}]|$)`
)

// Abbreviation maps a street-type or marker abbreviation to its full word
type Abbreviation struct {
	Short string // literal abbreviation without the trailing dot
	Full  string
}

// abbreviations is applied top to bottom. A token that is a prefix of a later token must come
// after it, otherwise the shorter form would corrupt the longer one (пр before пр-кт)
var abbreviations = []Abbreviation{
	{Short: "пр-кт", Full: "проспект"},
	{Short: "пр-т", Full: "проспект"},
	{Short: "просп", Full: "проспект"},
	{Short: "пр-д", Full: "проезд"},
	{Short: "мкр-н", Full: "микрорайон"},
	{Short: "мкрн", Full: "микрорайон"},
	{Short: "мкр", Full: "микрорайон"},
	{Short: "б-р", Full: "бульвар"},
	{Short: "бул", Full: "бульвар"},
	{Short: "кв-л", Full: "квартал"},
	{Short: "наб", Full: "набережная"},
	{Short: "пер", Full: "переулок"},
	{Short: "туп", Full: "тупик"},
	{Short: "пл", Full: "площадь"},
	{Short: "ул", Full: "улица"},
	{Short: "ш", Full: "шоссе"},
	{Short: "р-н", Full: "район"},
	{Short: "обл", Full: "область"},
	{Short: "респ", Full: "республика"},
	{Short: "пос", Full: "поселок"},
	{Short: "г", Full: "город"},
}

// Abbreviations returns a copy of the ordered expansion table
func Abbreviations() []Abbreviation {
	return append([]Abbreviation(nil), abbreviations...)
}

// thoroughfares are the full street-type words recognized after expansion
var thoroughfares = []string{
	"улица", "проспект", "переулок", "бульвар", "шоссе", "площадь", "проезд",
	"набережная", "тупик", "аллея", "линия", "микрорайон", "квартал",
}

var thoroughfareSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(thoroughfares))
	for _, t := range thoroughfares {
		m[t] = struct{}{}
	}
	return m
}()

// leadingAdmin are stripped only when they start the string, repeatedly.
// A leading "город" clause is handled by stripCityClause since city names may span words
var leadingAdmin = []*regexp.Regexp{
	regexp.MustCompile(`^\d{6}(?:[\s,.]+|$)`),
	regexp.MustCompile(`^(?:российская федерация|россия|рф)(?:[\s,.]+|$)`),
	regexp.MustCompile(`^[\p{L}-]+ федеральный округ(?:[\s,.]+|$)`),
	regexp.MustCompile(`^[\p{L}-]+ (?:область|край|автономный округ)(?:[\s,.]+|$)`),
	regexp.MustCompile(`^(?:область|республика) [\p{L}-]+(?:[\s,.]+|$)`),
	regexp.MustCompile(`^(?:москва|санкт-петербург|севастополь)(?:[\s,.]+|$)`),
}

// zoningWords are removed wherever they stand alone; multiword phrases first
var zoningWords = []string{
	"муниципальный округ",
	"муниципальное образование",
	"внутригородская территория",
	"городской округ",
	"сельское поселение",
	"городское поселение",
	"поселок городского типа",
	"рабочий поселок",
	"поселение",
	"поселок",
	"район",
	"пгт",
	"село",
	"деревня",
}

// qualifier canonicalization, longer spellings first inside each alternation
type qualifier struct {
	canon string
	re    *regexp.Regexp
}

func qualifierRe(alt string) *regexp.Regexp {
	// keyword must be followed by a dot, whitespace or a digit, so литейный stays intact
	return regexp.MustCompile(wordL + `(?:` + alt + `)(?:\.\s*|\s+|(\d))`)
}

var qualifiers = []qualifier{
	{canon: "корп", re: qualifierRe(`корпус|корп`)},
	{canon: "стр", re: qualifierRe(`строение|стр`)},
	{canon: "лит", re: qualifierRe(`литера|литер|лит`)},
	{canon: "оф", re: qualifierRe(`офис|оф`)},
	{canon: "пом", re: qualifierRe(`помещение|пом`)},
}

var (
	// house marker д./дом directly before a number
	reHouseMarker = regexp.MustCompile(wordL + `(?:дом|д)\.?\s*(\d)`)

	// 12к3, 12 к 3, 12 к. 3
	reInlineCorpus = regexp.MustCompile(`(\d+)\s*к\.?\s*(\d+)`)

	// trailing ", 12, 3"
	reTrailingPair = regexp.MustCompile(`, (\d+\p{L}?), (\d+)$`)

	// a canonical qualifier clause with its leading separator
	reQualifierClause = regexp.MustCompile(`(?:^|,\s*|\s+)(?:корп|стр|лит|оф|пом) [^\s,]+`)

	rePunct     = regexp.MustCompile(`[.;:()"«»№!?]+`)
	reCommaRuns = regexp.MustCompile(`\s*,[\s,]*`)

	reStreet = regexp.MustCompile(`(?:^|[^\p{L}\p{N}])((?:` + joinAlt(thoroughfares) + `)(?: (?:\d+-\p{L}+|\p{L}[\p{L}\p{N}-]*))+)`)
	reHouse  = regexp.MustCompile(`(?:^|[^\p{L}\p{N}-])(\d+\p{L}?)(?:[^\p{L}\p{N}-]|-\d|$)`)
)

func abbreviationRe(short string) *regexp.Regexp {
	// the dot itself is a boundary: ул.тестовая expands like ул. тестовая
	return regexp.MustCompile(wordL + regexp.QuoteMeta(short) + `(?:\.|` + wordR + `)`)
}

func wordRe(word string) *regexp.Regexp {
	return regexp.MustCompile(wordL + regexp.QuoteMeta(word) + wordR)
}

func joinAlt(xs []string) string {
	out := ""
	for i, x := range xs {
		if i > 0 {
			out += "|"
		}
		out += regexp.QuoteMeta(x)
	}
	return out
}

type compiledAbbr struct {
	re   *regexp.Regexp
	full string
}

var compiledAbbreviations = func() []compiledAbbr {
	out := make([]compiledAbbr, 0, len(abbreviations))
	for _, a := range abbreviations {
		out = append(out, compiledAbbr{re: abbreviationRe(a.Short), full: a.Full})
	}
	return out
}()

var compiledZoning = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(zoningWords))
	for _, w := range zoningWords {
		out = append(out, wordRe(w))
	}
	return out
}()
