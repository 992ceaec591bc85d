package modelsel

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/grailbox/lifeboat/dataset"
	"github.com/grailbox/lifeboat/estimator"
	"github.com/grailbox/lifeboat/persist"
	"github.com/grailbox/lifeboat/pkg/errors"
	"github.com/grailbox/lifeboat/pkg/log"
	"github.com/grailbox/lifeboat/report"
	"github.com/grailbox/lifeboat/resample"
	"github.com/grailbox/lifeboat/validation"
)

// Orchestrator runs the selection loop: algorithms strictly in input order,
// the five resampling policies in fixed order, one model at a time. All
// parallelism lives below the training adapter.
type Orchestrator struct {
	trainer validation.Trainer
	store   persist.Store
	logger  *slog.Logger

	// PlotPath, when set, receives a bar chart of the final comparative
	// evaluation. Plot failures are reported as warnings only.
	PlotPath string
}

// NewOrchestrator creates an orchestrator over a training adapter and an
// artifact store.
func NewOrchestrator(trainer validation.Trainer, store persist.Store) *Orchestrator {
	return &Orchestrator{
		trainer: trainer,
		store:   store,
		logger:  slog.Default(),
	}
}

// RunResult carries everything a caller needs after a selection run.
type RunResult struct {
	// WinnerID is the composite identifier of the best model.
	WinnerID string

	// WinnerArtifact is the surviving artifact's identifier.
	WinnerArtifact string

	// Winner is the best trained model, still in memory.
	Winner *TrainedModel

	// Design is the fitted feature design, needed to encode the test table
	// the same way the training table was encoded.
	Design *dataset.Design

	// Ledger is the frozen score ledger of the run.
	Ledger *ScoreLedger
}

// SelectBestModel trains all algorithm/policy variants described by spec,
// persists each one, selects the globally best by cross-validated metric
// and deletes every other artifact created during the run. It returns the
// winning artifact identifier.
//
// A training failure aborts only the affected algorithm. When every
// algorithm fails, ErrNoViableModel is returned and no artifacts are left
// behind.
func (o *Orchestrator) SelectBestModel(spec TrainingSpec) (string, error) {
	res, err := o.Run(spec)
	if err != nil {
		return "", err
	}
	return res.WinnerArtifact, nil
}

// Run is SelectBestModel with access to the full run state.
func (o *Orchestrator) Run(spec TrainingSpec) (*RunResult, error) {
	if len(spec.Algorithms) == 0 {
		return nil, errors.NewValueError("SelectBestModel", "no algorithms requested")
	}

	formula, err := dataset.ParseFormula(spec.Formula)
	if err != nil {
		return nil, err
	}
	design := dataset.NewDesign(formula, spec.Preprocess)
	X, y, err := design.FitTransform(spec.Table)
	if err != nil {
		return nil, err
	}

	rows, cols := X.Dims()
	o.logger.Info("selection run started",
		slog.Any("algorithms", spec.Algorithms),
		slog.Int(log.SamplesKey, rows),
		slog.Int(log.FeaturesKey, cols),
		slog.String(log.MetricKey, spec.CV.Metric),
	)

	// Run-scoped state: created here, discarded at the end.
	ledger := NewScoreLedger()
	registry := NewModelRegistry()
	var created []string
	failedSaves := make(map[string]bool)

	for _, algorithm := range spec.Algorithms {
		algorithm := algorithm
		err := errors.SafeExecute("train "+algorithm, func() error {
			return o.trainAlgorithm(algorithm, spec, X, y, ledger, registry, &created, failedSaves)
		})
		if err != nil {
			// Fail fast for this algorithm only; siblings are unaffected.
			o.logger.Error("algorithm aborted",
				slog.String(log.AlgorithmKey, algorithm),
				slog.String(log.OperationKey, "train"),
				log.ErrAttr(err),
			)
		}

		// Variants trained before an abort stay scored, so the comparison
		// runs for aborted algorithms too.
		o.reportAlgorithm(algorithm, spec.CV.Metric, registry)
	}

	o.reportGlobal(spec, registry)

	best, err := ledger.Best()
	if err != nil {
		o.logger.Error("no viable model", log.ErrAttr(err))
		return nil, err
	}
	if failedSaves[best.ArtifactID] {
		// The winner was scored but never durably saved; returning its
		// identifier would hand the caller an unloadable artifact.
		return nil, errors.NewPersistenceError("save", best.ArtifactID,
			errors.New("winning model was not persisted"))
	}

	o.cleanup(created, best.ArtifactID)

	winner := registry.Get(splitComposite(best.ID))
	o.logger.Info("best model selected",
		slog.String(log.ModelIDKey, best.ID),
		slog.String(log.ArtifactIDKey, best.ArtifactID),
		slog.Float64(log.ScoreKey, best.Score),
	)

	return &RunResult{
		WinnerID:       best.ID,
		WinnerArtifact: best.ArtifactID,
		Winner:         winner,
		Design:         design,
		Ledger:         ledger,
	}, nil
}

// trainAlgorithm runs the five policy variants of one algorithm. The first
// training error aborts the remaining variants; models already recorded for
// this algorithm stay in the ledger and on disk.
func (o *Orchestrator) trainAlgorithm(algorithm string, spec TrainingSpec, X mat.Matrix, y []float64, ledger *ScoreLedger, registry *ModelRegistry, created *[]string, failedSaves map[string]bool) error {
	for _, policy := range resample.Policies() {
		id := CompositeID(algorithm, policy)

		started := time.Now()
		res, err := o.trainer.Train(algorithm, policy, X, y, spec.SearchWidth, spec.CV)
		if err != nil {
			return err
		}

		model := &TrainedModel{
			Algorithm: algorithm,
			Policy:    policy,
			Estimator: res.Estimator,
			Score:     res.Score,
			Resamples: res.Resamples,
			Params:    res.Params,
		}
		model.Importance = computeImportance(model)

		artifactID := ArtifactID(algorithm, policy)
		if err := o.store.Save(artifactID, model); err != nil {
			// The model is still scored and can win; escalation happens at
			// selection time if it does.
			failedSaves[artifactID] = true
			o.logger.Error("artifact save failed",
				slog.String(log.ArtifactIDKey, artifactID),
				log.ErrAttr(err),
			)
		} else {
			*created = append(*created, artifactID)
		}

		registry.Put(model)
		if err := ledger.Append(ScoreRecord{ID: id, Score: res.Score, ArtifactID: artifactID}); err != nil {
			return err
		}

		o.logger.Info("model trained",
			slog.String(log.ModelIDKey, id),
			slog.String(log.PolicyKey, policy.Tag()),
			slog.Float64(log.ScoreKey, res.Score),
			slog.Int64(log.DurationMsKey, time.Since(started).Milliseconds()),
			slog.Any("params", res.Params),
		)
	}
	return nil
}

// computeImportance is best-effort: a failure or an algorithm without
// importance support yields nil and a warning, never an error.
func computeImportance(model *TrainedModel) []float64 {
	values, err := estimator.FeatureImportance(model.Estimator)
	if err != nil {
		errors.Warn(errors.NewImportanceWarning(model.ID(), err.Error()))
		return nil
	}
	return values
}

// reportAlgorithm logs the comparative evaluation of one algorithm's
// surviving variants. It requires the original-policy variant and is
// diagnostic only.
func (o *Orchestrator) reportAlgorithm(algorithm, metric string, registry *ModelRegistry) {
	if registry.Get(algorithm, resample.Original) == nil {
		return
	}
	models := registry.ByAlgorithm(algorithm)

	scores := make([]report.ModelScores, 0, len(models))
	for _, m := range models {
		scores = append(scores, report.ModelScores{ID: m.ID(), Resamples: m.Resamples})
	}
	summary, err := report.Summarize(metric, scores)
	if err != nil {
		errors.Warn(errors.Wrap(err, "per-algorithm comparison"))
		return
	}
	o.logger.Info("resampling comparison",
		slog.String(log.AlgorithmKey, algorithm),
		slog.String("summary", summary.String()),
	)
}

// reportGlobal logs the comparative evaluation across all algorithms when
// more than one trained its original variant, and optionally renders the
// comparison chart.
func (o *Orchestrator) reportGlobal(spec TrainingSpec, registry *ModelRegistry) {
	trained := 0
	var scores []report.ModelScores
	for _, algorithm := range spec.Algorithms {
		if registry.Get(algorithm, resample.Original) != nil {
			trained++
		}
		for _, m := range registry.ByAlgorithm(algorithm) {
			scores = append(scores, report.ModelScores{ID: m.ID(), Resamples: m.Resamples})
		}
	}
	if trained <= 1 {
		return
	}

	summary, err := report.Summarize(spec.CV.Metric, scores)
	if err != nil {
		errors.Warn(errors.Wrap(err, "global comparison"))
		return
	}
	o.logger.Info("global model comparison", slog.String("summary", summary.String()))

	if o.PlotPath != "" {
		if err := report.PlotComparison(summary, o.PlotPath); err != nil {
			errors.Warn(errors.Wrap(err, "comparison plot"))
		}
	}
}

// cleanup deletes every artifact created during the run except the winner.
// Deletion failures are reported but do not change the selection.
func (o *Orchestrator) cleanup(created []string, winnerArtifact string) {
	for _, artifactID := range created {
		if artifactID == winnerArtifact {
			continue
		}
		if err := o.store.Delete(artifactID); err != nil {
			o.logger.Error("artifact cleanup failed",
				slog.String(log.ArtifactIDKey, artifactID),
				slog.String(log.OperationKey, "cleanup"),
				log.ErrAttr(err),
			)
		}
	}
}

// splitComposite resolves a composite identifier back into its registry
// key parts.
func splitComposite(id string) (string, resample.Policy) {
	for _, policy := range resample.Policies() {
		suffix := "." + policy.Tag()
		if len(id) > len(suffix) && id[len(id)-len(suffix):] == suffix {
			return id[:len(id)-len(suffix)], policy
		}
	}
	return id, resample.Original
}
