package domain

// Corpus is the sentence material the question bank draws from.
type Corpus struct {
	Name      string     `json:"name"`
	Sentences []Sentence `json:"sentences"`
	// Verbs groups verb stems by class.
	Verbs map[string]VerbClass `json:"verbs"`
	// Conjugations maps tense -> class -> person/number key -> suffix.
	Conjugations map[string]map[string]map[string]string `json:"conjugations"`
}

// Sentence is one annotated corpus sentence.
type Sentence struct {
	Sentence string  `json:"sentence"`
	Tense    string  `json:"tense"`
	Subject  Subject `json:"subject"`
	Verb     Verb    `json:"verb"`
	Object   *Object `json:"object,omitempty"`
}

// Subject of a sentence. Person and number keep the corpus codes (e.g. "3", "sg").
type Subject struct {
	Form   string `json:"form"`
	Person Code   `json:"person"`
	Number Code   `json:"number"`
	Gender string `json:"gender,omitempty"`
}

// Verb of a sentence.
type Verb struct {
	Root           string `json:"root"`
	Form           string `json:"form"`
	Class          string `json:"class"`
	Meaning        string `json:"meaning,omitempty"`
	RequiresObject bool   `json:"requires_object,omitempty"`
}

// Object of a sentence, if any.
type Object struct {
	Form   string `json:"form"`
	Number string `json:"number,omitempty"`
	Gender string `json:"gender,omitempty"`
}

// VerbClass lists the verbs of one conjugation class.
type VerbClass struct {
	Verbs []VerbStem `json:"verbs"`
}

// VerbStem carries the tense stems of a root.
type VerbStem struct {
	Root        string `json:"root"`
	PresentStem string `json:"present_stem,omitempty"`
	PastStem    string `json:"past_stem,omitempty"`
	FutureStem  string `json:"future_stem,omitempty"`
}

// Stem returns the stem used to conjugate root in class for tense.
// Unknown roots and missing stems fall back to the root itself.
func (c Corpus) Stem(root, class, tense string) string {
	vc, ok := c.Verbs[class]
	if !ok {
		return root
	}
	for _, v := range vc.Verbs {
		if v.Root != root {
			continue
		}
		switch {
		case tense == "present" && v.PresentStem != "":
			return v.PresentStem
		case tense == "past" && v.PastStem != "":
			return v.PastStem
		case tense == "future" && v.FutureStem != "":
			return v.FutureStem
		}
		return root
	}
	return root
}
