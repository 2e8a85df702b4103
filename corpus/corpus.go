// Package corpus loads the annotated ADR tweet corpus.
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/5l1v3r1/adr-ranker/features"
)

// Column names of the tweet file.
const (
	IDColumn    = "id"
	RawColumn   = "raw_text"
	TokenColumn = "tok_text"
	POSColumn   = "pos_text"
	LabelColumn = "adr"
)

// An Example is one annotated tweet.
type Example struct {
	ID     string
	Raw    string
	Tokens []string
	POS    string
	Label  int
}

// A Corpus is an ordered list of examples.
type Corpus struct {
	Examples []*Example
}

func (c *Corpus) Len() int {
	return len(c.Examples)
}

// Labels returns the ADR labels in corpus order.
func (c *Corpus) Labels() []int {
	res := make([]int, len(c.Examples))
	for i, e := range c.Examples {
		res[i] = e.Label
	}
	return res
}

// Positives counts the tweets that mention an ADR.
func (c *Corpus) Positives() int {
	var count int
	for _, e := range c.Examples {
		count += e.Label
	}
	return count
}

// Input returns the aligned views used by feature
// providers.
func (c *Corpus) Input() *features.Input {
	in := &features.Input{
		Raw:    make([]string, len(c.Examples)),
		Tokens: make([][]string, len(c.Examples)),
		POS:    make([]string, len(c.Examples)),
		Labels: c.Labels(),
	}
	for i, e := range c.Examples {
		in.Raw[i] = e.Raw
		in.Tokens[i] = e.Tokens
		in.POS[i] = e.POS
	}
	return in
}

// Load reads the tab-separated tweet file and, if posFile
// is not empty, the part-of-speech file whose i-th line
// belongs to the i-th tweet.
func Load(tweetsFile, posFile string) (*Corpus, error) {
	f, err := os.Open(tweetsFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", tweetsFile, err)
	}
	if posFile == "" {
		return c, nil
	}

	pf, err := os.Open(posFile)
	if err != nil {
		return nil, err
	}
	defer pf.Close()
	if err := c.readPOS(pf); err != nil {
		return nil, fmt.Errorf("load %s: %w", posFile, err)
	}
	return c, nil
}

// Read parses a tweet table with a header row. Fields are
// separated by tabs and never quoted, so quote characters
// are part of the text. The raw_text, tok_text and adr
// columns are required.
func Read(r io.Reader) (*Corpus, error) {
	records, err := readTSV(r)
	if err != nil {
		return nil, err
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.NaNValues([]string{}))
	if df.Err != nil {
		return nil, df.Err
	}

	present := map[string]bool{}
	for _, name := range df.Names() {
		present[name] = true
	}
	for _, name := range []string{RawColumn, TokenColumn, LabelColumn} {
		if !present[name] {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	raw := df.Col(RawColumn).Records()
	tokens := df.Col(TokenColumn).Records()
	labels := df.Col(LabelColumn).Records()
	var ids, pos []string
	if present[IDColumn] {
		ids = df.Col(IDColumn).Records()
	}
	if present[POSColumn] {
		pos = df.Col(POSColumn).Records()
	}

	c := &Corpus{Examples: make([]*Example, df.Nrow())}
	for i := range c.Examples {
		label, err := strconv.Atoi(strings.TrimSpace(labels[i]))
		if err != nil || (label != 0 && label != 1) {
			return nil, fmt.Errorf("row %d: invalid label %q", i+1, labels[i])
		}
		e := &Example{
			ID:     strconv.Itoa(i),
			Raw:    cleanText(raw[i]),
			Tokens: strings.Fields(tokens[i]),
			Label:  label,
		}
		if len(e.Tokens) == 0 {
			e.Tokens = features.Tokenize(e.Raw)
		}
		if ids != nil {
			e.ID = ids[i]
		}
		if pos != nil {
			e.POS = pos[i]
		}
		c.Examples[i] = e
	}
	return c, nil
}

func readTSV(r io.Reader) ([][]string, error) {
	var records [][]string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(records) > 0 && len(fields) != len(records[0]) {
			return nil, fmt.Errorf("line %d: %d fields, header has %d", len(records)+1,
				len(fields), len(records[0]))
		}
		records = append(records, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty tweet file")
	}
	return records, nil
}

func (c *Corpus) readPOS(r io.Reader) error {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) != c.Len() {
		return fmt.Errorf("%d POS lines for %d tweets", len(lines), c.Len())
	}
	for i, line := range lines {
		c.Examples[i].POS = line
	}
	return nil
}

// cleanText undoes HTML escaping left by the Twitter API
// and normalises the text to NFKC.
func cleanText(s string) string {
	return norm.NFKC.String(html.UnescapeString(strings.TrimSpace(s)))
}
