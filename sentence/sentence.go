package sentence

import "unicode/utf8"

type Doc struct {
	Id int `json:"id"`

	Title string `json:"title"`

	Labels []string `json:"labels,omitempty"`

	// Lang is the language code of the pipeline that produced the
	// annotations ("en", "zh").
	Lang string `json:"lang,omitempty"`

	// Text is the raw input the annotations were produced from.
	Text string `json:"text,omitempty"`

	Sentences []Sentence `json:"sentences"`
}

// Library is a collection of Doc
type Library []Doc

// Sentence is an ordered sequence of tokens. Its length is the number of
// tokens, punctuation included.
type Sentence struct {
	Id     int     `json:"id"`
	DocId  int     `json:"doc_id"`
	Tokens []Token `json:"tokens"`
}

// Token represents a word of the sentence, with POS and metadata.
type Token struct {
	Id         int    `json:"id"`
	Head       int    `json:"head"`
	SentenceId int    `json:"sent"`
	Pos        string `json:"pos"`
	Dep        string `json:"dep"`

	// A string containing detailed POS data (the verb tense marker for
	// verbs, f.ex. VBD, VBZ)
	Tag string `json:"tag"`

	// the index of the start character of the token in the original doc (set by spacy, stanza)
	Idx int `json:"idx"`

	// The unmodified word
	Text string `json:"text"`

	// The lemma of the word
	Lemma string `json:"lemma"`

	// The index of the word in the sentence, starting at 0.
	Index int `json:"index"`

	// Morphological features, one "Key=Value" item per feature, f.ex.
	// ["Number=Sing", "Person=3"]. Empty for tokens without features.
	Morph []string `json:"morph,omitempty"`
}

// Len returns the length of the token text in characters.
func (t Token) Len() int {
	return utf8.RuneCountInString(t.Text)
}
