package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/grailbox/lifeboat/config"
	"github.com/grailbox/lifeboat/dataset"
	"github.com/grailbox/lifeboat/metrics"
	"github.com/grailbox/lifeboat/modelsel"
	"github.com/grailbox/lifeboat/persist"
	"github.com/grailbox/lifeboat/pkg/log"
	"github.com/grailbox/lifeboat/submission"
	"github.com/grailbox/lifeboat/validation"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full training, selection and prediction pipeline",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := loadConfig(cmd, configPath)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		log.SetupLogger(cfg.LogLevel)
		log.InstallWarnSink()

		if err := runPipeline(cfg); err != nil {
			slog.Error("pipeline failed", log.ErrAttr(err))
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// loadConfig reads the config file; when the user did not name one and the
// default is absent, built-in defaults are used.
func loadConfig(cmd *cobra.Command, path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && !cmd.Flags().Changed("config") {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(path)
}

func runPipeline(cfg *config.Config) error {
	opts := dataset.LoadOptions{Categorical: cfg.Categorical}

	train, err := dataset.LoadCSV(cfg.TrainPath, opts)
	if err != nil {
		return err
	}
	if err := train.Impute(); err != nil {
		return err
	}
	slog.Info("training table loaded",
		slog.String("path", cfg.TrainPath),
		slog.Int(log.SamplesKey, train.Len()),
	)

	store, closeStore, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	orch := modelsel.NewOrchestrator(validation.NewCVTrainer(), store)
	orch.PlotPath = cfg.PlotPath

	res, err := orch.Run(modelsel.TrainingSpec{
		Formula:     cfg.Formula,
		Table:       train,
		Algorithms:  cfg.Algorithms,
		Preprocess:  cfg.Preprocess,
		SearchWidth: cfg.SearchWidth,
		CV: modelsel.CVControl{
			Folds:    cfg.CV.Folds,
			Repeats:  cfg.CV.Repeats,
			Parallel: cfg.CV.Parallel,
			Metric:   cfg.CV.Metric,
			Seed:     cfg.CV.Seed,
		},
	})
	if err != nil {
		return err
	}

	// Reload the winner from the store rather than reusing the in-memory
	// model, so a broken artifact surfaces here and not at the next run.
	var winner modelsel.TrainedModel
	if err := store.Load(res.WinnerArtifact, &winner); err != nil {
		return err
	}
	slog.Info("winning artifact verified",
		slog.String(log.ArtifactIDKey, res.WinnerArtifact),
		slog.Float64(log.ScoreKey, winner.Score),
	)

	if cfg.TestPath == "" {
		return nil
	}
	return predict(cfg, res.Design, &winner)
}

func predict(cfg *config.Config, design *dataset.Design, winner *modelsel.TrainedModel) error {
	test, err := dataset.LoadCSV(cfg.TestPath, dataset.LoadOptions{Categorical: cfg.Categorical})
	if err != nil {
		return err
	}
	if err := test.Impute(); err != nil {
		return err
	}

	X, err := design.Transform(test)
	if err != nil {
		return err
	}
	proba, err := winner.Estimator.PredictProba(X)
	if err != nil {
		return err
	}
	labels := metrics.Threshold(proba, 0.5)

	ids, err := submission.IDs(test, cfg.IDColumn)
	if err != nil {
		return err
	}
	records, err := submission.FromPredictions(ids, labels.RawVector().Data)
	if err != nil {
		return err
	}
	if err := submission.Write(cfg.SubmissionPath, records); err != nil {
		return err
	}

	slog.Info("submission written",
		slog.String("path", cfg.SubmissionPath),
		slog.Int("rows", len(records)),
	)
	return nil
}

// openStore builds the configured artifact store and a close function.
func openStore(cfg config.StoreConfig) (persist.Store, func(), error) {
	switch cfg.Backend {
	case "sqlite":
		s, err := persist.NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		s, err := persist.NewFileStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}
