// Command train builds a layered feed-forward network from a CSV data
// matrix, trains it against an expected-output CSV, and writes the trained
// model and per-batch costs to disk.
package main

import (
	"encoding/csv"
	"flag"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/wm-noble/net"
	"github.com/wm-noble/net/costfuncs"
	"github.com/wm-noble/net/telemetry"
)

// Config mirrors the YAML run configuration.
type Config struct {
	// Data is the path of the input matrix CSV: one row per tick, one
	// column per Input node.
	Data string `yaml:"data"`

	// Expected is the path of the expected-output CSV: one row per scored
	// tick, one column per output node.
	Expected string `yaml:"expected"`

	// Loop re-reads the data matrix from the start when it is exhausted.
	Loop bool `yaml:"loop"`

	// Widths are the layer widths of the network, inputs excluded.
	Widths []int `yaml:"widths"`

	BatchSize    int     `yaml:"batch_size"`
	LearningRate float64 `yaml:"learning_rate"`
	Lambda       float64 `yaml:"lambda"`

	// Warmup is passed through to net.TrainArgs: zero computes the network
	// depth automatically, negative skips warmup.
	Warmup int `yaml:"warmup"`

	// Evaluate names a registered cost function ("quadratic" or
	// "cross-entropy") used to score the trained network's final outputs
	// against the last expected row, if set.
	Evaluate string `yaml:"evaluate"`

	// Model is where the trained network is saved, if set.
	Model string `yaml:"model"`

	// Costs is where the per-batch cost CSV is written, if set.
	Costs string `yaml:"costs"`
}

func loadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{BatchSize: 1, LearningRate: 0.5}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadMatrix reads a headerless CSV file of float64 values.
func loadMatrix(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	matrix := make([][]float64, len(rows))
	for r, row := range rows {
		matrix[r] = make([]float64, len(row))
		for c, field := range row {
			if matrix[r][c], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, err
			}
		}
	}

	return matrix, nil
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	configPath := flag.String("config", "train.yaml", "path of the run configuration")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	data, err := loadMatrix(cfg.Data)
	if err != nil {
		slog.Error("failed to load data matrix", "path", cfg.Data, "error", err)
		os.Exit(1)
	}

	expectedRows, err := loadMatrix(cfg.Expected)
	if err != nil {
		slog.Error("failed to load expected outputs", "path", cfg.Expected, "error", err)
		os.Exit(1)
	}

	var expected []float64
	for _, row := range expectedRows {
		expected = append(expected, row...)
	}

	network, err := net.Layered(data, cfg.Widths, cfg.Loop)
	if err != nil {
		slog.Error("failed to build network", "error", err)
		os.Exit(1)
	}

	depth, err := network.Depth()
	if err != nil {
		slog.Error("failed to compute network depth", "error", err)
		os.Exit(1)
	}

	slog.Info("built layered network",
		"inputs", len(data[0]),
		"widths", cfg.Widths,
		"depth", depth)

	coll := telemetry.NewCollector()

	err = network.Train(net.TrainArgs{
		Expected:     expected,
		BatchSize:    cfg.BatchSize,
		LearningRate: cfg.LearningRate,
		Lambda:       cfg.Lambda,
		Warmup:       cfg.Warmup,
		Update: func(r net.Result) {
			coll.Add(r.Batch, r.Cost)
			slog.Info("batch finished", "batch", r.Batch, "cost", r.Cost)
		},
	})
	if err != nil {
		slog.Error("training failed", "error", err)
		os.Exit(1)
	}

	if cfg.Evaluate != "" && len(expectedRows) > 0 {
		cf := costfuncs.Get(cfg.Evaluate)
		if cf == nil {
			slog.Error("unknown cost function", "name", cfg.Evaluate)
			os.Exit(1)
		}

		network.Tick()
		cost, err := cf.Cost(network.Outputs(), expectedRows[len(expectedRows)-1])
		if err != nil {
			slog.Error("evaluation failed", "error", err)
			os.Exit(1)
		}

		slog.Info("evaluated trained network", "cost_function", cfg.Evaluate, "cost", cost)
	}

	if cfg.Costs != "" {
		if err := coll.Flush(cfg.Costs); err != nil {
			slog.Error("failed to write cost telemetry", "error", err)
			os.Exit(1)
		}
	}

	if cfg.Model != "" {
		if err := network.Save(cfg.Model); err != nil {
			slog.Error("failed to save model", "error", err)
			os.Exit(1)
		}

		slog.Info("saved model", "path", cfg.Model)
	}
}
