// Package lifeboat implements a model-selection pipeline for binary
// survival classification on tabular passenger data.
//
// The pipeline loads a labelled training table and an unlabelled test table,
// imputes and encodes features, then trains every requested algorithm under
// five class-rebalancing policies (original, oversample, undersample, ROSE,
// SMOTE). Each variant is scored by repeated stratified k-fold cross
// validation on ROC AUC and persisted immediately; after all variants finish,
// the single best-scoring model is kept and every other artifact is deleted.
// The winning model is finally applied to the test table to produce a
// two-column submission file.
//
// # Packages
//
//   - dataset: CSV loading, imputation, encoding, formula handling
//   - resample: class-rebalancing policies applied at training time
//   - estimator: trainable estimators ("knn", "nb", "glm") and their registry
//   - metrics: classification metrics (ROC AUC, accuracy, ...)
//   - validation: stratified cross validation and the training adapter
//   - modelsel: the orchestrator that trains, scores and selects models
//   - persist: durable model artifact stores (filesystem, SQLite)
//   - report: comparative score summaries and diagnostic plots
//   - submission: prediction file writer
//   - pkg/errors, pkg/log: structured errors and logging
//
// # Quick start
//
//	spec := modelsel.TrainingSpec{
//	    Formula:     "Survived ~ Pclass + Sex + Age + Fare",
//	    Table:       train,
//	    Algorithms:  []string{"knn", "nb"},
//	    SearchWidth: 5,
//	    CV:          modelsel.CVControl{Folds: 10, Repeats: 3, Metric: "roc_auc"},
//	}
//	orc := modelsel.NewOrchestrator(trainer, store)
//	winner, err := orc.SelectBestModel(spec)
package lifeboat

// Version is the release version of the module.
const Version = "0.1.0"
