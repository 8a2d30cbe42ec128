package domain

import (
	"fmt"
	"strings"
)

// Canonical person and number vocabulary used by guesses.
var (
	Persons = []string{"first", "second", "third"}
	Numbers = []string{"singular", "dual", "plural"}
)

// Tenses is the option set of the tense game.
var Tenses = []string{"present", "past", "future"}

var personCodes = map[string]string{
	"1":      "first",
	"2":      "second",
	"3":      "third",
	"first":  "first",
	"second": "second",
	"third":  "third",
}

var numberCodes = map[string]string{
	"sg":       "singular",
	"du":       "dual",
	"pl":       "plural",
	"singular": "singular",
	"dual":     "dual",
	"plural":   "plural",
}

// NormalizePerson maps a backend person code onto Persons.
// Matching ignores case and surrounding space; unknown codes are returned unchanged.
func NormalizePerson(code string) string {
	return normalize(personCodes, code)
}

// NormalizeNumber maps a backend number code onto Numbers.
// Matching ignores case and surrounding space; unknown codes are returned unchanged.
func NormalizeNumber(code string) string {
	return normalize(numberCodes, code)
}

func normalize(table map[string]string, code string) string {
	if v, ok := table[strings.ToLower(strings.TrimSpace(code))]; ok {
		return v
	}
	return code
}

// PersonNumberLabel renders raw codes the way explanations name them,
// e.g. "Third person singular".
func PersonNumberLabel(person, number string) string {
	p := NormalizePerson(person)
	if p != "" {
		p = strings.ToUpper(p[:1]) + p[1:]
	}
	return fmt.Sprintf("%s person %s", p, NormalizeNumber(number))
}

// paradigm holds the pronoun and a sample form of gam (to go) per person/number.
var paradigm = map[string]map[string][2]string{
	"first": {
		"singular": {"aham", "gacchāmi"},
		"dual":     {"āvām", "gacchāvaḥ"},
		"plural":   {"vayam", "gacchāmaḥ"},
	},
	"second": {
		"singular": {"tvam", "gacchasi"},
		"dual":     {"yuvām", "gacchathaḥ"},
		"plural":   {"yūyam", "gacchatha"},
	},
	"third": {
		"singular": {"saḥ", "gacchati"},
		"dual":     {"tau", "gacchataḥ"},
		"plural":   {"te", "gacchanti"},
	},
}

var personClues = map[string]string{
	"first":  "The subject refers to someone speaking (e.g., 'I' or 'we').",
	"second": "The subject refers to someone being addressed (e.g., 'you').",
	"third":  "The subject refers to someone or something else (e.g., 'he', 'she', 'they').",
}

var numberClues = map[string]string{
	"singular": "The subject involves a single entity.",
	"dual":     "The subject involves exactly two entities.",
	"plural":   "The subject involves more than two entities.",
}

// ContextualFeedback builds the verbose retry hint for a person/number guess:
// the sentence the guess would produce plus a clue for each choice.
func ContextualFeedback(person, number string) string {
	forms, ok := paradigm[person][number]
	if !ok {
		return "Invalid selection. Try again!"
	}
	return fmt.Sprintf("With your selected person (%s) and number (%s), the sentence would be %q. Try again and think! %s %s",
		person, number, forms[0]+" "+forms[1], personClues[person], numberClues[number])
}
