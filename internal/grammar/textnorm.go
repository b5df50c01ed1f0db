package grammar

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Noise correction and month tables are data-driven so additions are
// auditable instead of buried in per-grammar code.
//
//go:embed corrections.json
var correctionsRaw []byte

type noiseConfig struct {
	Version     int                    `json:"version"`
	Months      map[string]string      `json:"months"`
	Corrections map[string][][2]string `json:"corrections"`
}

var noise = mustLoadNoise()

func mustLoadNoise() noiseConfig {
	var cfg noiseConfig
	if err := json.Unmarshal(correctionsRaw, &cfg); err != nil {
		panic(fmt.Sprintf("grammar: corrections.json: %v", err))
	}
	return cfg
}

// ApplyCorrections uppercases the text and applies the grammar's ordered
// replacement table exactly once. Grammars with no table get the uppercased
// text unchanged.
func ApplyCorrections(grammarID, text string) string {
	out := strings.ToUpper(text)
	for _, pair := range noise.Corrections[grammarID] {
		out = strings.ReplaceAll(out, pair[0], pair[1])
	}
	return out
}

// FoldAccents strips combining marks so regular expressions match both
// accented and OCR-flattened spellings.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func containsFolded(text, marker string) bool {
	return strings.Contains(strings.ToUpper(text), marker)
}
