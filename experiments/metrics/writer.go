package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type AgentConfig struct {
	ID            int
	MaxExpansions int
	Deadline      time.Duration
	BuildPeasants bool
}

type RunRecord struct {
	Scenario string
	Agent    int // AgentConfig.ID
	Outcome  string
	SearchMetric
}

// Setup describes one experiment run and is stored next to its records.
type Setup struct {
	Name      string        `json:"name"`
	Scenarios []string      `json:"scenarios"`
	Agents    []AgentConfig `json:"agents"`
	Seed      uint64        `json:"seed"`
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
	Duration  time.Duration `json:"duration"`
}

type Writer struct {
	baseDir string
}

// NewWriter creates experiments/<name>/<timestamp> under root.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, "experiments", name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteSetup(setup Setup) error {
	setup.Duration = setup.EndTime.Sub(setup.StartTime)

	f, err := os.Create(filepath.Join(w.baseDir, "setup.json"))
	if err != nil {
		return fmt.Errorf("failed to create setup file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(setup); err != nil {
		return fmt.Errorf("failed to write setup: %w", err)
	}
	return nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "max_expansions", "deadline", "build_peasants"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			strconv.Itoa(config.MaxExpansions),
			config.Deadline.String(),
			strconv.FormatBool(config.BuildPeasants),
		})
	}
	return w.write("agent_configs.csv", header, rows)
}

func (w *Writer) WriteRunRecords(records []RunRecord) error {
	header := []string{"scenario", "agent", "outcome", "duration", "expansions", "generated",
		"stale_pops", "reopened", "frontier_peak", "plan_cost", "plan_length"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Scenario,
			strconv.Itoa(record.Agent),
			record.Outcome,
			record.Duration.String(),
			strconv.Itoa(record.Expansions),
			strconv.Itoa(record.Generated),
			strconv.Itoa(record.StalePops),
			strconv.Itoa(record.Reopened),
			strconv.Itoa(record.FrontierPeak),
			strconv.Itoa(record.PlanCost),
			strconv.Itoa(record.PlanLength),
		})
	}
	return w.write("run_records.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
