package web

import (
	"html/template"
	"strconv"

	"github.com/abhisek/glucoguard/internal/risk"
)

var templateFuncs = template.FuncMap{
	"fixed2": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
}

type option struct {
	Value    int
	Label    string
	Selected bool
}

type fieldView struct {
	Name       string
	Prompt     string
	Continuous bool
	Value      string
	Min        float64
	Max        float64
	Step       float64
	Options    []option
	Error      string
}

type resultView struct {
	Probability string
	Verdict     string
	Color       string
	Percent     string
	Threshold   string
}

type page struct {
	Tagline       string
	Version       string
	Fields        []fieldView
	Threshold     float64
	ThresholdMin  float64
	ThresholdMax  float64
	ThresholdStep float64
	ThresholdHint string
	Result        *resultView
	Error         string
	HowItWorks    []string
	Disclaimer    string
}

func (s *Server) newPage(rec risk.Record, threshold float64) *page {
	p := &page{
		Tagline:       risk.Tagline,
		Version:       s.scorer.Bundle().Version(),
		Threshold:     threshold,
		ThresholdMin:  risk.UIThresholdMin,
		ThresholdMax:  risk.UIThresholdMax,
		ThresholdStep: risk.UIThresholdStep,
		ThresholdHint: risk.ThresholdHint,
		HowItWorks:    risk.HowItWorks,
		Disclaimer:    risk.Disclaimer,
	}
	for _, f := range risk.Fields() {
		p.Fields = append(p.Fields, fieldView{
			Name:       f.Name,
			Prompt:     f.Prompt,
			Continuous: f.Kind == risk.KindContinuous,
			Min:        f.Min,
			Max:        f.Max,
			Step:       f.Step,
		})
	}
	p.fill(rec)
	return p
}

// fill sets each field's displayed value from rec.
func (p *page) fill(rec risk.Record) {
	for i := range p.Fields {
		fv := &p.Fields[i]
		f, _ := risk.LookupField(fv.Name)
		v, ok := rec[fv.Name]
		if !ok {
			v = f.Default
		}
		fv.Value = strconv.FormatFloat(v, 'f', -1, 64)

		fv.Options = fv.Options[:0]
		for _, code := range f.Choices() {
			fv.Options = append(fv.Options, option{
				Value:    code,
				Label:    f.ChoiceLabel(code),
				Selected: float64(code) == v,
			})
		}
	}
}

func (p *page) setError(err error) {
	p.Error = err.Error()
	field := newErrorResponse(err).Field
	for i := range p.Fields {
		if p.Fields[i].Name == field {
			p.Fields[i].Error = err.Error()
		}
	}
}

func newResultView(res risk.Result) *resultView {
	return &resultView{
		Probability: res.ProbabilityText(),
		Verdict:     res.Verdict(),
		Color:       res.Label.Color(),
		Percent:     strconv.FormatFloat(res.Probability*100, 'f', 1, 64),
		Threshold:   res.ThresholdText(),
	}
}
