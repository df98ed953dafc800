package sentence

import "strings"

// Universal Dependencies labels used by both the English and the Chinese
// spaCy pipelines.
const (
	PosAdjective    = "ADJ"
	PosAdverb       = "ADV"
	PosInterjection = "INTJ"
	PosNoun         = "NOUN"
	PosSubConj      = "SCONJ"
	PosVerb         = "VERB"
	PosPropNoun     = "PROPN"
	PosPunct        = "PUNCT"

	// PosOther is the UD catch-all. Tokens without a recognizable label are
	// counted under it.
	PosOther = "X"

	DepClausalComplement     = "ccomp"
	DepOpenClausalComplement = "xcomp"
	DepAdverbialClause       = "advcl"
	DepRelativeClause        = "relcl"
	DepConjunct              = "conj"

	// VerbTagPrefix marks fine grained verb tags (VB, VBD, VBZ, VV, VC...)
	VerbTagPrefix = "V"
)

var contentPos = map[string]bool{
	PosAdjective:    true,
	PosAdverb:       true,
	PosInterjection: true,
	PosNoun:         true,
	PosSubConj:      true,
	PosVerb:         true,
	PosPropNoun:     true,
}

var clauseDeps = map[string]bool{
	DepClausalComplement:     true,
	DepOpenClausalComplement: true,
	DepAdverbialClause:       true,
	DepRelativeClause:        true,
	DepConjunct:              true,
}

// IsPunct reports whether the token belongs to the punctuation class.
func (t Token) IsPunct() bool {
	return t.Pos == PosPunct
}

// IsContent reports whether the token is a content word whose lemma counts
// as a motif.
func (t Token) IsContent() bool {
	return contentPos[t.Pos]
}

// IsClause reports whether the token heads a subordinate or coordinate
// clause.
func (t Token) IsClause() bool {
	return clauseDeps[t.Dep]
}

// IsVerbTag reports whether the fine grained tag is a verb tense tag.
func (t Token) IsVerbTag() bool {
	return strings.HasPrefix(t.Tag, VerbTagPrefix)
}

// PosLabel returns the POS label, PosOther when missing.
func (t Token) PosLabel() string {
	return orOther(t.Pos)
}

// DepLabel returns the dependency label, PosOther when missing.
func (t Token) DepLabel() string {
	return orOther(t.Dep)
}

func orOther(label string) string {
	if strings.TrimSpace(label) == "" {
		return PosOther
	}
	return label
}
