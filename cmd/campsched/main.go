// Command campsched drives the scheduling engine from the command line:
// solve a snapshot, repair a single pinned cell against a prior solve, or
// validate a snapshot's block references without solving.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/campsched/internal/logx"
	"github.com/gitrdm/campsched/internal/parallel"
	"github.com/gitrdm/campsched/pkg/scheduler"
	"github.com/gitrdm/campsched/pkg/scheduler/config"
)

var (
	snapshotPath string
	outPath      string
	configPath   string
	verbose      bool
	showReport   bool
	fixturesDir  string
	workerCount  int

	rootCmd = &cobra.Command{
		Use:   "campsched",
		Short: "Daily activity scheduler for a multi-division summer camp",
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "solver config YAML (defaults if unset)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")

	solveCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "input snapshot JSON (required unless --fixtures is set)")
	solveCmd.Flags().StringVar(&outPath, "out", "", "output result JSON (stdout if unset)")
	solveCmd.Flags().BoolVar(&showReport, "report", false, "include the per-pass analyzer report")
	solveCmd.Flags().StringVar(&fixturesDir, "fixtures", "", "directory of snapshot JSON files to solve concurrently, one result file each")
	solveCmd.Flags().IntVar(&workerCount, "workers", 0, "worker count for --fixtures (0 = NumCPU)")
	// --snapshot is required unless --fixtures is given, checked in Run; when both are set, --fixtures wins.

	repairCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "input snapshot JSON (required)")
	repairCmd.Flags().StringVar(&outPath, "out", "", "output result JSON (stdout if unset)")
	repairCmd.MarkFlagRequired("snapshot")
	repairCmd.Flags().String("prior", "", "prior solve result JSON to rehydrate before repairing (required)")
	repairCmd.Flags().String("edit", "", "repair request JSON (required)")
	repairCmd.MarkFlagRequired("prior")
	repairCmd.MarkFlagRequired("edit")

	validateCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "input snapshot JSON (required)")
	validateCmd.MarkFlagRequired("snapshot")

	rootCmd.AddCommand(solveCmd, repairCmd, validateCmd)
}

func newLogger() *logx.Logger {
	if !verbose {
		return logx.Nop()
	}
	return logx.Production()
}

func loadConfig() *config.SolverConfig {
	if configPath == "" {
		return config.DefaultSolverConfig()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("loading config %q: %v", configPath, err)
	}
	return cfg
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a snapshot into a schedule",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		logger := newLogger()

		if fixturesDir != "" {
			runFixturesBatch(cfg, logger)
			return
		}
		if snapshotPath == "" {
			log.Fatal("--snapshot is required (or use --fixtures DIR)")
		}

		snap, err := loadSnapshot(snapshotPath)
		if err != nil {
			log.Fatal(err)
		}

		result, err := scheduler.Solve(snap, cfg, logger)
		if err != nil {
			log.Fatalf("solve failed: %v", err)
		}
		if !showReport {
			result.Report = scheduler.PassReport{}
		}

		if err := writeResult(outPath, result); err != nil {
			log.Fatal(err)
		}
	},
}

func runFixturesBatch(cfg *config.SolverConfig, logger *logx.Logger) {
	entries, err := os.ReadDir(fixturesDir)
	if err != nil {
		log.Fatalf("reading fixtures dir %q: %v", fixturesDir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		paths = append(paths, filepath.Join(fixturesDir, e.Name()))
	}

	type outcome struct {
		path string
		err  error
	}

	results := parallel.Map(context.Background(), workerCount, logger, paths, func(path string) outcome {
		snap, err := loadSnapshot(path)
		if err != nil {
			return outcome{path: path, err: err}
		}
		result, err := scheduler.Solve(snap, cfg, logger)
		if err != nil {
			return outcome{path: path, err: fmt.Errorf("solving %s: %w", path, err)}
		}

		dest := path[:len(path)-len(".json")] + ".result.json"
		if err := writeResult(dest, result); err != nil {
			return outcome{path: path, err: err}
		}
		return outcome{path: path}
	})

	failed := 0
	for _, o := range results {
		if o.err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%v\n", o.err)
		}
	}
	fmt.Printf("solved %d/%d fixtures\n", len(results)-failed, len(results))
	if failed > 0 {
		os.Exit(1)
	}
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a snapshot's block references without solving",
	Run: func(cmd *cobra.Command, args []string) {
		snap, err := loadSnapshot(snapshotPath)
		if err != nil {
			log.Fatal(err)
		}

		warnings := scheduler.ValidateSnapshot(snap)
		if len(warnings) == 0 {
			fmt.Println("snapshot is valid")
			return
		}
		for _, w := range warnings {
			fmt.Printf("block %d: %s\n", w.BlockIdx, w.Message)
		}
		os.Exit(1)
	},
}

// wireConflict/wireRepairRequest mirror scheduler.ConflictEntry/RepairRequest
// for JSON decoding of an --edit file.
type wireConflict struct {
	Bunk             string `json:"bunk"`
	Slots            []int  `json:"slots"`
	OriginalActivity string `json:"originalActivity"`
}

type wireRepairRequest struct {
	PinnedBunk     string         `json:"pinnedBunk"`
	PinnedSlots    []int          `json:"pinnedSlots"`
	PinnedField    string         `json:"pinnedField"`
	PinnedActivity string         `json:"pinnedActivity"`
	PinnedDivName  string         `json:"pinnedDivName"`
	PinnedStartMin int            `json:"pinnedStartMin"`
	PinnedEndMin   int            `json:"pinnedEndMin"`
	Conflicts      []wireConflict `json:"conflicts"`
	BypassMode     bool           `json:"bypassMode"`
}

type repairOutput struct {
	LockID      string                 `json:"lockId"`
	Assignments []scheduler.Assignment `json:"assignments"`
	Reassigned  []int                  `json:"reassigned"`
	Failed      []int                  `json:"failed"`
	PinnedLock  scheduler.Lock         `json:"pinnedLock"`
}

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Pin one cell and reassign its displaced conflicts",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		logger := newLogger()

		snap, err := loadSnapshot(snapshotPath)
		if err != nil {
			log.Fatal(err)
		}

		priorPath, _ := cmd.Flags().GetString("prior")
		editPath, _ := cmd.Flags().GetString("edit")

		priorRaw, err := os.ReadFile(priorPath)
		if err != nil {
			log.Fatalf("reading prior result %q: %v", priorPath, err)
		}
		var prior scheduler.Result
		if err := json.Unmarshal(priorRaw, &prior); err != nil {
			log.Fatalf("decoding prior result %q: %v", priorPath, err)
		}

		editRaw, err := os.ReadFile(editPath)
		if err != nil {
			log.Fatalf("reading repair request %q: %v", editPath, err)
		}
		var w wireRepairRequest
		if err := json.Unmarshal(editRaw, &w); err != nil {
			log.Fatalf("decoding repair request %q: %v", editPath, err)
		}

		sc, err := scheduler.NewSolverContext(snap, cfg, logger)
		if err != nil {
			log.Fatal(err)
		}
		for _, a := range prior.Assignments {
			if a.BlockIdx < 0 || a.BlockIdx >= len(sc.Assignments) {
				continue
			}
			sc.Apply(a.BlockIdx, a.Pick, a.Cost)
		}

		conflicts := make([]scheduler.ConflictEntry, 0, len(w.Conflicts))
		for _, c := range w.Conflicts {
			conflicts = append(conflicts, scheduler.ConflictEntry{
				Bunk:             c.Bunk,
				Slots:            c.Slots,
				OriginalActivity: c.OriginalActivity,
			})
		}

		req := scheduler.RepairRequest{
			PinnedBunk:     w.PinnedBunk,
			PinnedSlots:    w.PinnedSlots,
			PinnedField:    w.PinnedField,
			PinnedActivity: w.PinnedActivity,
			PinnedDivName:  w.PinnedDivName,
			PinnedStartMin: w.PinnedStartMin,
			PinnedEndMin:   w.PinnedEndMin,
			Conflicts:      conflicts,
			BypassMode:     w.BypassMode,
		}

		logger.Info("running post-edit repair", zap.String("pinnedBunk", req.PinnedBunk), zap.Bool("bypassMode", req.BypassMode))
		res := scheduler.RunPostEditRepair(sc, req)

		out := repairOutput{
			LockID:      res.LockID,
			Assignments: sc.Assignments,
			Reassigned:  res.Reassigned,
			Failed:      res.Failed,
			PinnedLock:  res.PinnedLock,
		}
		encoded, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		encoded = append(encoded, '\n')
		if outPath == "" {
			os.Stdout.Write(encoded)
			return
		}
		if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
			log.Fatal(err)
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
