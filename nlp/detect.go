package nlp

import (
	"unicode"

	"github.com/revelaction/stylo/prompt"
)

// hanThreshold is the share of Han characters among letters from which a
// text is considered Chinese.
const hanThreshold = 0.3

// Detect guesses the language of text from its script. Text with no letters
// is English.
func Detect(text string) prompt.Lang {
	var letters, han int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Han, r) {
			han++
		}
	}

	if letters == 0 {
		return prompt.English
	}

	if float64(han)/float64(letters) >= hanThreshold {
		return prompt.Chinese
	}

	return prompt.English
}
