package correlate

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/autoscout/internal/candidate"
	"github.com/blackwell-systems/autoscout/internal/config"
	"github.com/blackwell-systems/autoscout/internal/logging"
	"github.com/blackwell-systems/autoscout/internal/recommend"
	"github.com/blackwell-systems/autoscout/internal/textnorm"
	"github.com/blackwell-systems/autoscout/internal/workitem"
)

// Engine scores pairings. It holds only read-only configuration and is safe
// for concurrent use.
type Engine struct {
	compat    map[string][]string
	stopWords map[string]bool
	weights   config.Weights
	threshold float64
	workers   int
	logger    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers scores items across n goroutines. Values below 2 score
// sequentially. The output does not depend on n.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithWeights overrides the final score weights.
func WithWeights(w config.Weights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithThreshold overrides the relevance threshold. Only pairings whose final
// score is strictly greater are kept.
func WithThreshold(t float64) Option {
	return func(e *Engine) { e.threshold = t }
}

// WithLogger sets the logger used for recovered scoring failures.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine builds an engine from a normalized vocabulary. It returns a
// *config.ConfigurationError when a required table is empty.
func NewEngine(vocab config.Vocabulary, opts ...Option) (*Engine, error) {
	if err := vocab.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		compat:    vocab.CompatibilityKeywords,
		stopWords: StopWordSet(vocab.StopWords),
		weights:   config.DefaultWeights,
		threshold: config.DefaultThreshold,
		workers:   config.DefaultWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.OrNop(e.logger)

	w := e.weights
	if w.Semantic < 0 || w.Automation < 0 || w.Business < 0 {
		return nil, fmt.Errorf("correlate: negative weight in %+v", w)
	}
	if sum := w.Semantic + w.Automation + w.Business; sum <= 0 || sum > 1+1e-9 {
		return nil, fmt.Errorf("correlate: weights must sum to (0,1], got %v", sum)
	}
	return e, nil
}

// itemView and candidateView hold per-entity values reused across pairs.
type itemView struct {
	item     *workitem.WorkItem
	text     string
	keywords KeywordSet
}

type candidateView struct {
	cand     *candidate.Candidate
	keywords KeywordSet
	tags     []string
}

// Correlate scores the full cross product of items and candidates, in that
// enumeration order, and returns the records above the threshold sorted by
// final score descending. Equal scores keep enumeration order.
//
// Every item and candidate must have been analyzed. A cancelled context
// returns ctx.Err() and no records.
func (e *Engine) Correlate(ctx context.Context, items []workitem.WorkItem, candidates []candidate.Candidate) ([]Record, error) {
	for i := range items {
		if items[i].Metrics == nil {
			return nil, fmt.Errorf("correlate: work item %q has not been analyzed", items[i].ID)
		}
	}
	for j := range candidates {
		if candidates[j].Metrics == nil {
			return nil, fmt.Errorf("correlate: candidate %q has not been analyzed", candidates[j].ID())
		}
	}
	if len(items) == 0 || len(candidates) == 0 {
		return []Record{}, nil
	}

	cviews := make([]candidateView, len(candidates))
	for j := range candidates {
		c := &candidates[j]
		cviews[j] = candidateView{
			cand:     c,
			keywords: e.keywords("candidate", c.ID(), c.Text()),
			tags:     c.Metrics.Tags.Strings(),
		}
	}

	// perItem[i] holds item i's surviving records in candidate order, so
	// concatenating them yields enumeration order.
	perItem := make([][]Record, len(items))
	scoreItem := func(i int) {
		it := &items[i]
		iv := itemView{
			item:     it,
			text:     textnorm.Fold(it.Text()),
			keywords: e.keywords("work item", it.ID, it.Text()),
		}
		var kept []Record
		for j := range cviews {
			if rec, ok := e.scorePair(&iv, &cviews[j], i*len(candidates)+j); ok {
				kept = append(kept, rec)
			}
		}
		perItem[i] = kept
	}

	if e.workers > 1 && len(items) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers)
		for i := range items {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				scoreItem(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range items {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			scoreItem(i)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []Record
	for _, kept := range perItem {
		records = append(records, kept...)
	}
	if records == nil {
		records = []Record{}
	}
	Rank(records)

	e.logger.Debug("correlation complete",
		zap.Int("items", len(items)),
		zap.Int("candidates", len(candidates)),
		zap.Int("pairs", len(items)*len(candidates)),
		zap.Int("kept", len(records)),
		zap.Int("workers", e.workers),
	)
	return records, nil
}

// Rank sorts records in place by final score descending, breaking ties by
// enumeration index ascending.
func Rank(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].FinalScore != records[j].FinalScore {
			return records[i].FinalScore > records[j].FinalScore
		}
		return records[i].Index < records[j].Index
	})
}

// scorePair computes all scores for one pair and reports whether it passes
// the threshold.
func (e *Engine) scorePair(iv *itemView, cv *candidateView, index int) (Record, bool) {
	it, c := iv.item, cv.cand
	im, cm := it.Metrics, c.Metrics

	semantic := e.safeScore("semantic", it.ID, c.ID(), func() float64 {
		return Jaccard(iv.keywords, cv.keywords)
	})
	automation := e.safeScore("automation", it.ID, c.ID(), func() float64 {
		return AutomationScore(iv.text, im.AutomationPotential, cm.Tags, e.compat)
	})
	business := e.safeScore("business", it.ID, c.ID(), func() float64 {
		return BusinessScore(im.BusinessValue, cm.ComplexityScore)
	})

	final := FinalScore(semantic, automation, business, e.weights)
	if !(final > e.threshold) {
		return Record{}, false
	}

	weighted := WeightedPriority(final, im.PriorityScore, im.BusinessValue)
	plan := recommend.BuildPlan(final, c.Category, c.Filename)

	return Record{
		WorkItemID:              it.ID,
		WorkItemTitle:           it.Title,
		WorkItemCategory:        it.Category,
		CandidateID:             c.ID(),
		CandidateFilename:       c.Filename,
		CandidateCategory:       c.Category,
		ItemPriorityScore:       im.PriorityScore,
		ItemAutomationPotential: im.AutomationPotential,
		ItemBusinessValue:       im.BusinessValue,
		CandidateComplexity:     cm.ComplexityScore,
		CandidateEffort:         string(cm.Effort),
		CandidateTags:           append([]string(nil), cv.tags...),
		SemanticScore:           semantic,
		AutomationScore:         automation,
		BusinessScore:           business,
		FinalScore:              final,
		WeightedPriority:        weighted,
		Priority:                ClassifyPriority(weighted),
		ROI:                     EstimateROI(im.BusinessValue, im.AutomationPotential),
		Plan:                    plan,
		SuggestedActions:        plan.Actions(),
		ImplementationSteps:     plan.Steps(),
		Index:                   index,
	}, true
}

// safeScore runs one sub-score. A panic or a non-finite result is logged and
// scored as 0 so one bad pair never aborts the run.
func (e *Engine) safeScore(name, itemID, candidateID string, fn func() float64) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("sub-score failed, using 0",
				zap.String("score", name),
				zap.String("work_item", itemID),
				zap.String("candidate", candidateID),
				zap.Any("panic", r),
			)
			score = 0
		}
	}()
	score = fn()
	if math.IsNaN(score) || math.IsInf(score, 0) {
		e.logger.Warn("sub-score not finite, using 0",
			zap.String("score", name),
			zap.String("work_item", itemID),
			zap.String("candidate", candidateID),
		)
		return 0
	}
	return score
}

// keywords extracts an entity's keyword set. A failure yields an empty set,
// which scores every pair of that entity as semantically unrelated.
func (e *Engine) keywords(kind, id, text string) (set KeywordSet) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("keyword extraction failed, using empty set",
				zap.String("kind", kind),
				zap.String("id", id),
				zap.Any("panic", r),
			)
			set = KeywordSet{}
		}
	}()
	return ExtractKeywords(text, e.stopWords)
}
