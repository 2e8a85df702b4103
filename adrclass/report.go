package adrclass

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
)

// Scores holds the per-fold macro scores of one feature
// matrix.
type Scores struct {
	Name      string    `json:"name"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	Precision []float64 `json:"precision"`
	Recall    []float64 `json:"recall"`
	F1        []float64 `json:"f1"`
}

// Results are the scores of one experiment, in the order
// the feature sets were evaluated.
type Results struct {
	Experiment string    `json:"experiment"`
	Scores     []*Scores `json:"scores"`
}

// Get returns the scores recorded under name.
func (r *Results) Get(name string) (*Scores, bool) {
	for _, s := range r.Scores {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Table renders one row per feature set with the mean of
// P, R and F1 over the folds.
func (r *Results) Table() (string, error) {
	records := [][]string{{"Features", "P", "R", "F1"}}
	for _, s := range r.Scores {
		records = append(records, []string{
			s.Name,
			mean(s.Precision),
			mean(s.Recall),
			mean(s.F1),
		})
	}
	df := dataframe.LoadRecords(records, dataframe.DetectTypes(false))
	if df.Err != nil {
		return "", df.Err
	}
	return df.String(), nil
}

// LaTeX renders the same table as a tabular environment.
func (r *Results) LaTeX() string {
	var b strings.Builder
	b.WriteString("\\begin{tabular}{lrrr}\n\\toprule\n")
	b.WriteString("{} & P & R & F1 \\\\\n\\midrule\n")
	for _, s := range r.Scores {
		fmt.Fprintf(&b, "%s & %s & %s & %s \\\\\n", latexEscape(s.Name),
			meanStd(s.Precision, "%.4f $\\pm$ %.4f"),
			meanStd(s.Recall, "%.4f $\\pm$ %.4f"),
			meanStd(s.F1, "%.4f $\\pm$ %.4f"))
	}
	b.WriteString("\\bottomrule\n\\end{tabular}")
	return b.String()
}

func mean(xs []float64) string {
	if len(xs) == 0 {
		return "-"
	}
	return fmt.Sprintf("%.4f", stat.Mean(xs, nil))
}

func meanStd(xs []float64, format string) string {
	if len(xs) == 0 {
		return "-"
	}
	avg, std := stat.MeanStdDev(xs, nil)
	if len(xs) == 1 || math.IsNaN(std) {
		std = 0
	}
	return fmt.Sprintf(format, avg, std)
}

var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
)

func latexEscape(s string) string {
	return latexReplacer.Replace(s)
}
