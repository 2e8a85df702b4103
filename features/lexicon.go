package features

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// A WordList is a set of lower-cased words, such as one
// polarity of an opinion lexicon.
type WordList map[string]bool

// ReadWordList reads one word per line. Blank lines and
// lines starting with ';' are skipped.
func ReadWordList(path string) (WordList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res := WordList{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		res[strings.ToLower(line)] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return res, nil
}

// An ADRLexicon is a list of adverse reaction terms, each
// stored as a sequence of lower-cased words.
type ADRLexicon struct {
	Terms [][]string

	// first word -> indices into Terms
	byFirst map[string][]int
}

// NewADRLexicon builds a lexicon from plain term strings.
func NewADRLexicon(terms []string) *ADRLexicon {
	l := &ADRLexicon{byFirst: map[string][]int{}}
	seen := map[string]bool{}
	for _, term := range terms {
		words := letterWords(term)
		if len(words) == 0 {
			continue
		}
		key := strings.Join(words, " ")
		if seen[key] {
			continue
		}
		seen[key] = true
		l.byFirst[words[0]] = append(l.byFirst[words[0]], len(l.Terms))
		l.Terms = append(l.Terms, words)
	}
	return l
}

// ReadADRLexicon reads a tab-separated lexicon whose second
// column holds the term (e.g. "C0018681\theadache\tSIDER").
// Single-column lines are taken as the term itself.
func ReadADRLexicon(path string) (*ADRLexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var terms []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) >= 2 {
			terms = append(terms, fields[1])
		} else {
			terms = append(terms, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NewADRLexicon(terms), nil
}

// Matches returns the length in words of every lexicon
// term found in words. At each position only the longest
// matching term counts, and matches do not overlap.
func (l *ADRLexicon) Matches(words []string) []int {
	var res []int
	for i := 0; i < len(words); {
		best := 0
		for _, idx := range l.byFirst[words[i]] {
			term := l.Terms[idx]
			if len(term) > best && hasPrefix(words[i:], term) {
				best = len(term)
			}
		}
		if best > 0 {
			res = append(res, best)
			i += best
		} else {
			i++
		}
	}
	return res
}

func hasPrefix(words, prefix []string) bool {
	if len(prefix) > len(words) {
		return false
	}
	for i, w := range prefix {
		if words[i] != w {
			return false
		}
	}
	return true
}
