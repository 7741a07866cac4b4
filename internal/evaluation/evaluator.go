package evaluation

import (
	"context"
	"fmt"
	"time"

	"github.com/edurag/ragmark/internal/bus"
	"github.com/edurag/ragmark/internal/dataset"
	"github.com/edurag/ragmark/internal/history"
	"github.com/edurag/ragmark/internal/pkg/logger"
	"github.com/edurag/ragmark/internal/rag"
	"github.com/edurag/ragmark/internal/scorer"
)

// Options tune the evaluation run.
type Options struct {
	// TopK is the retrieval depth per query.
	TopK int

	// ContextSize is how many top documents form the generation context.
	ContextSize int

	// RelevantTopN marks the first N retrieved documents as relevant. This
	// is a proxy for human relevance labels; production evaluations should
	// substitute real judgments.
	RelevantTopN int
}

// DefaultOptions returns the standard run parameters.
func DefaultOptions() Options {
	return Options{
		TopK:         10,
		ContextSize:  3,
		RelevantTopN: 3,
	}
}

// Evaluator orchestrates the collaborator, the metric functions and the
// scorer registry across a batch of queries.
type Evaluator struct {
	retriever rag.Retriever
	generator rag.Generator
	scorers   *scorer.Registry
	events    bus.Bus
	runs      history.Store
	log       *logger.Logger
	opts      Options
}

// NewEvaluator creates an evaluator. events and runs may be nil, in which
// case no lifecycle events are published and no history is kept.
func NewEvaluator(
	retriever rag.Retriever,
	generator rag.Generator,
	scorers *scorer.Registry,
	events bus.Bus,
	runs history.Store,
	log *logger.Logger,
	opts Options,
) *Evaluator {
	if opts.TopK <= 0 {
		opts.TopK = DefaultOptions().TopK
	}
	if opts.ContextSize <= 0 {
		opts.ContextSize = DefaultOptions().ContextSize
	}
	if opts.RelevantTopN <= 0 {
		opts.RelevantTopN = DefaultOptions().RelevantTopN
	}
	if log == nil {
		log = logger.Default()
	}
	return &Evaluator{
		retriever: retriever,
		generator: generator,
		scorers:   scorers,
		events:    events,
		runs:      runs,
		log:       log,
		opts:      opts,
	}
}

// EvaluateQuery retrieves, generates and scores a single dataset query.
func (e *Evaluator) EvaluateQuery(ctx context.Context, q dataset.Query, advanced bool) (Record, error) {
	docs, err := e.retriever.SimilaritySearchWithScore(ctx, q.Text, e.opts.TopK)
	if err != nil {
		return nil, err
	}

	contextSize := e.opts.ContextSize
	if contextSize > len(docs) {
		contextSize = len(docs)
	}
	contextDocs := docs[:contextSize]

	response, err := e.generator.Generate(ctx, q.Text, contextDocs)
	if err != nil {
		return nil, err
	}

	passages := make([]string, len(contextDocs))
	for i, doc := range contextDocs {
		passages[i] = doc.Content
	}

	retrieved := make([]RetrievalResult, len(docs))
	for i, doc := range docs {
		retrieved[i] = RetrievalResult{
			Content:    doc.Content,
			Score:      doc.Score,
			IsRelevant: i < e.opts.RelevantTopN,
		}
	}

	reference := ""
	if advanced {
		reference = dataset.ReferenceAnswer(q.ID)
	}

	return EvaluateSingleQuery(ctx, QueryInput{
		Query:     q.Text,
		Response:  response,
		Context:   passages,
		Retrieved: retrieved,
		Reference: reference,
		Advanced:  advanced,
	}, e.scorers), nil
}

// Run evaluates the given queries strictly sequentially. A failed query is
// logged, reported on the bus and skipped; cancelling the context aborts the
// whole run.
func (e *Evaluator) Run(ctx context.Context, queries []dataset.Query, advanced bool) (*RunResult, error) {
	runID := fmt.Sprintf("run-%s", time.Now().UTC().Format("20060102-150405"))
	startedAt := time.Now()

	e.publish(ctx, bus.TopicRunStarted, runID, map[string]any{
		"query_count": len(queries),
		"advanced":    advanced,
	})

	result := &RunResult{
		RunID:    runID,
		Advanced: advanced,
	}

	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e.log.WithQuery(q.ID).Info("evaluating query",
			"progress", fmt.Sprintf("%d/%d", i+1, len(queries)))

		rec, err := e.EvaluateQuery(ctx, q, advanced)
		if err != nil {
			// A cancelled context is a run abort, not a per-query failure.
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.log.WithQuery(q.ID).WithError(err).Warn("query evaluation failed, skipping")
			e.publish(ctx, bus.TopicQueryFailed, runID, map[string]any{
				"query_id": q.ID,
				"error":    err.Error(),
			})
			result.Failed++
			continue
		}

		result.Records = append(result.Records, rec)
		result.QueryIDs = append(result.QueryIDs, q.ID)
		result.Evaluated++

		e.log.WithQuery(q.ID).Info("query scored",
			"mrr", rec[MetricMRR],
			"faithfulness", rec[MetricFaithfulness],
			"relevancy", rec[MetricRelevancy])

		e.publish(ctx, bus.TopicQueryScored, runID, map[string]any{
			"query_id": q.ID,
			"record":   rec,
		})
	}

	result.Aggregates = Aggregate(result.Records, PolicySkipZeros)

	if e.runs != nil && len(result.Aggregates) > 0 {
		if err := e.runs.SaveRun(ctx, runID, startedAt, result.Aggregates); err != nil {
			e.log.WithError(err).Warn("failed to persist run history")
		}
	}

	e.publish(ctx, bus.TopicRunCompleted, runID, map[string]any{
		"evaluated":  result.Evaluated,
		"failed":     result.Failed,
		"aggregates": result.Aggregates,
	})

	return result, nil
}

func (e *Evaluator) publish(ctx context.Context, topic, runID string, payload any) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(ctx, topic, bus.NewEvent(topic, runID, payload)); err != nil {
		e.log.WithError(err).Warn("failed to publish event", "topic", topic)
	}
}
