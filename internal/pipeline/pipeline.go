// Package pipeline runs the enrichment stages over a stored dataset.
package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"textqa-enrich/internal/actionable"
	"textqa-enrich/internal/aggregator"
	"textqa-enrich/internal/answer"
	"textqa-enrich/internal/dataset"
	"textqa-enrich/internal/logger"
	"textqa-enrich/internal/question"
	"textqa-enrich/internal/translation"
	"textqa-enrich/internal/types"
)

const progressEvery = 10

type Options struct {
	SourceLang string
	TargetLang string
	// Workers > 1 runs the per-row stages concurrently.
	Workers int
}

// Report summarises one run.
type Report struct {
	RunID         string                `json:"run_id"`
	Rows          int                   `json:"rows"`
	FailedBatches int                   `json:"failed_batches"`
	Questions     int                   `json:"questions"`
	Answers       int                   `json:"answers"`
	Duration      time.Duration         `json:"duration"`
	Insight       aggregator.Insight    `json:"insight"`
	Action        actionable.ActionCard `json:"action"`
}

type Driver struct {
	translator *translation.Translator
	questions  *question.Generator
	answers    *answer.Answerer
	opts       Options
	log        *logrus.Entry
}

func New(tr *translation.Translator, qg *question.Generator, ans *answer.Answerer, opts Options) *Driver {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.TargetLang == "" {
		opts.TargetLang = "en"
	}
	return &Driver{
		translator: tr,
		questions:  qg,
		answers:    ans,
		opts:       opts,
		log:        logger.New().WithField("component", "pipeline"),
	}
}

// Run loads the dataset at path, enriches it and writes it back over the same file.
// Nothing is written when the run is cancelled.
func (d *Driver) Run(ctx context.Context, path string) (Report, error) {
	log, runID := logger.New().WithRun()
	log = log.WithFields(logrus.Fields{"component": "pipeline", "path": path})
	start := time.Now()

	ds, err := dataset.Load(ctx, path)
	if err != nil {
		return Report{}, fmt.Errorf("load dataset: %w", err)
	}
	for _, col := range []string{types.ColText, types.ColSummary} {
		if !ds.HasColumn(col) {
			return Report{}, fmt.Errorf("load dataset: missing required column %q", col)
		}
	}
	log.WithField("rows", ds.Len()).Info("enrichment started")

	out, rep, err := d.Enrich(ctx, ds)
	if err != nil {
		return Report{}, err
	}
	if err := dataset.Save(ctx, path, out); err != nil {
		return Report{}, fmt.Errorf("save dataset: %w", err)
	}

	rep.RunID = runID
	rep.Duration = time.Since(start)
	log.WithFields(logrus.Fields{
		"rows":           rep.Rows,
		"failed_batches": rep.FailedBatches,
		"questions":      rep.Questions,
		"answers":        rep.Answers,
		"answer_rate":    rep.Insight.AnswerRate,
		"confidence":     rep.Insight.ConfidenceBuckets,
		"languages":      rep.Insight.TranslatedLanguages,
		"duration":       rep.Duration.String(),
	}).Info("enrichment finished")
	log.WithField("action", rep.Action.Action).Info(rep.Action.Insight)
	return rep, nil
}

// Enrich runs all four stages in order on a copy of ds.
func (d *Driver) Enrich(ctx context.Context, ds types.Dataset) (types.Dataset, Report, error) {
	rep := Report{Rows: ds.Len()}

	ds, failed := d.TranslateColumn(ctx, ds, types.ColText)
	rep.FailedBatches += failed
	ds, failed = d.TranslateColumn(ctx, ds, types.ColSummary)
	rep.FailedBatches += failed
	if err := ctx.Err(); err != nil {
		return types.Dataset{}, rep, err
	}

	ds, n, err := d.GenerateQuestions(ctx, ds)
	if err != nil {
		return types.Dataset{}, rep, err
	}
	rep.Questions = n

	ds, n, err = d.AnswerQuestions(ctx, ds)
	if err != nil {
		return types.Dataset{}, rep, err
	}
	rep.Answers = n
	rep.Insight = aggregator.Aggregate(ds)
	rep.Action = actionable.Generate(rep.Insight, d.opts.TargetLang)
	return ds, rep, nil
}

// TranslateColumn fills text_en (from text) or summary_en (from summary) and returns the
// number of failed batches. Every row gets a value, empty when its batch failed.
func (d *Driver) TranslateColumn(ctx context.Context, ds types.Dataset, src string) (types.Dataset, int) {
	var (
		target string
		texts  []string
	)
	switch src {
	case types.ColText:
		target, texts = types.ColTextEN, ds.Texts()
	case types.ColSummary:
		target, texts = types.ColSummaryEN, ds.Summaries()
	default:
		panic("pipeline: cannot translate column " + src)
	}

	d.log.WithFields(logrus.Fields{"column": src, "rows": len(texts)}).Info("translating")
	res := d.translator.Translate(ctx, texts, d.opts.SourceLang, d.opts.TargetLang)

	out := ds.WithColumns(target)
	for i := range out.Rows {
		v := types.StrPtr(res.Texts[i])
		if target == types.ColTextEN {
			out.Rows[i].TextEN = v
		} else {
			out.Rows[i].SummaryEN = v
		}
	}
	return out, res.Failed()
}

// GenerateQuestions fills the question column from text_en.
func (d *Driver) GenerateQuestions(ctx context.Context, ds types.Dataset) (types.Dataset, int, error) {
	out := ds.WithColumns(types.ColQuestion)
	var made atomic.Int64
	err := d.forEachRow(ctx, "question", out.Len(), func(ctx context.Context, i int) {
		res := d.questions.Generate(ctx, out.Rows[i].TextEN)
		out.Rows[i].Question = res.Ptr()
		if res.Ok() {
			made.Add(1)
		}
	})
	if err != nil {
		return types.Dataset{}, 0, err
	}
	return out, int(made.Load()), nil
}

// AnswerQuestions fills answer and answer_confidence from (question, text_en). Rows without a
// question get neither.
func (d *Driver) AnswerQuestions(ctx context.Context, ds types.Dataset) (types.Dataset, int, error) {
	out := ds.WithColumns(types.ColAnswer, types.ColAnswerConfidence)
	var found atomic.Int64
	err := d.forEachRow(ctx, "answer", out.Len(), func(ctx context.Context, i int) {
		row := &out.Rows[i]
		res := d.answers.Answer(ctx, row.Question, row.TextEN)
		row.Answer, row.AnswerConfidence = nil, nil
		if res.Ok() {
			row.Answer = types.StrPtr(res.Value.Text)
			row.AnswerConfidence = types.FloatPtr(res.Value.Confidence)
			found.Add(1)
		}
	})
	if err != nil {
		return types.Dataset{}, 0, err
	}
	return out, int(found.Load()), nil
}

// forEachRow calls fn for every index, in order when Workers is 1 and through a bounded
// errgroup otherwise. fn must only touch row i.
func (d *Driver) forEachRow(ctx context.Context, stage string, n int, fn func(ctx context.Context, i int)) error {
	var done atomic.Int64
	tick := func() {
		if c := done.Add(1); c%progressEvery == 0 || int(c) == n {
			d.log.WithFields(logrus.Fields{"stage": stage, "done": c, "total": n}).Info("progress")
		}
	}

	if d.opts.Workers <= 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(ctx, i)
			tick()
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(gctx, i)
			tick()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
