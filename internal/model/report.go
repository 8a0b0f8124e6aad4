package model

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ClassMetrics holds the per-class (or averaged) scores of a report row.
type ClassMetrics struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report is a classification summary of predictions against true labels.
type Report struct {
	Classes     []ClassMetrics
	Accuracy    float64
	MacroAvg    ClassMetrics
	WeightedAvg ClassMetrics
	Total       int
}

// NewClassificationReport scores yPred against yTrue over the union of their
// labels. Undefined ratios (zero denominators) are reported as 0.
func NewClassificationReport(yTrue, yPred []int) Report {
	labelSet := map[int]bool{}
	for _, l := range yTrue {
		labelSet[l] = true
	}
	for _, l := range yPred {
		labelSet[l] = true
	}
	labels := make([]int, 0, len(labelSet))
	for l := range labelSet {
		labels = append(labels, l)
	}
	sort.Ints(labels)

	r := Report{Total: len(yTrue)}
	correct := 0
	for i := range yTrue {
		if i < len(yPred) && yTrue[i] == yPred[i] {
			correct++
		}
	}
	r.Accuracy = ratio(float64(correct), float64(len(yTrue)))

	precisions := make([]float64, len(labels))
	recalls := make([]float64, len(labels))
	f1s := make([]float64, len(labels))
	supports := make([]float64, len(labels))

	for k, label := range labels {
		var tp, predicted, actual float64
		for i := range yTrue {
			isTrue := yTrue[i] == label
			isPred := i < len(yPred) && yPred[i] == label
			if isTrue {
				actual++
			}
			if isPred {
				predicted++
			}
			if isTrue && isPred {
				tp++
			}
		}
		p := ratio(tp, predicted)
		rc := ratio(tp, actual)
		f := ratio(2*p*rc, p+rc)

		precisions[k], recalls[k], f1s[k], supports[k] = p, rc, f, actual
		r.Classes = append(r.Classes, ClassMetrics{
			Label:     fmt.Sprint(label),
			Precision: p,
			Recall:    rc,
			F1:        f,
			Support:   int(actual),
		})
	}

	r.MacroAvg = ClassMetrics{Label: "macro avg", Support: r.Total}
	r.WeightedAvg = ClassMetrics{Label: "weighted avg", Support: r.Total}
	if len(labels) > 0 {
		r.MacroAvg.Precision = stat.Mean(precisions, nil)
		r.MacroAvg.Recall = stat.Mean(recalls, nil)
		r.MacroAvg.F1 = stat.Mean(f1s, nil)
	}
	if floats.Sum(supports) > 0 {
		r.WeightedAvg.Precision = stat.Mean(precisions, supports)
		r.WeightedAvg.Recall = stat.Mean(recalls, supports)
		r.WeightedAvg.F1 = stat.Mean(f1s, supports)
	}

	return r
}

// String renders the report as a fixed-width table.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%12s %9s %9s %9s %9s\n\n", "", "precision", "recall", "f1-score", "support")
	for _, c := range r.Classes {
		writeRow(&b, c)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%12s %9s %9s %9.2f %9d\n", "accuracy", "", "", r.Accuracy, r.Total)
	writeRow(&b, r.MacroAvg)
	writeRow(&b, r.WeightedAvg)
	return b.String()
}

func writeRow(b *strings.Builder, c ClassMetrics) {
	fmt.Fprintf(b, "%12s %9.2f %9.2f %9.2f %9d\n", c.Label, c.Precision, c.Recall, c.F1, c.Support)
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
