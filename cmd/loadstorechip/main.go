package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/oisee/loadstore-chip/pkg/chip"
	"github.com/oisee/loadstore-chip/pkg/fuzz"
	"github.com/oisee/loadstore-chip/pkg/remoteverify"
	"github.com/oisee/loadstore-chip/pkg/trace"
	"github.com/oisee/loadstore-chip/pkg/tracefile"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "loadstorechip",
		Short: "Load/store trace chip — populate and verify RISC-V memory-op execution traces",
	}

	// run command
	var runProgram string
	var runRows int

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Populate a trace from a program file and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := tracefile.ReadProgramFile(runProgram)
			if err != nil {
				return fmt.Errorf("read program: %w", err)
			}
			numRows := runRows
			if numRows <= 0 {
				numRows = prog.NumRows
			}
			tr, _, err := populate(prog, numRows)
			if err != nil {
				return err
			}
			fmt.Printf("populated %d rows (%d memory steps) across %d columns\n",
				tr.NumRows(), len(prog.Steps), trace.NumColumns())
			return nil
		},
	}
	runCmd.Flags().StringVar(&runProgram, "program", "", "Program file (JSON)")
	runCmd.Flags().IntVar(&runRows, "rows", 0, "Trace row count (0 = program.NumRows)")
	runCmd.MarkFlagRequired("program")

	// verify command
	var verifyProgram string
	var verifyRows int

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Populate a trace and evaluate the constraint emitter over every row",
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := tracefile.ReadProgramFile(verifyProgram)
			if err != nil {
				return fmt.Errorf("read program: %w", err)
			}
			numRows := verifyRows
			if numRows <= 0 {
				numRows = prog.NumRows
			}
			tr, _, err := populate(prog, numRows)
			if err != nil {
				return err
			}
			for i := 0; i < tr.NumRows(); i++ {
				ok, violations := trace.CheckRow(tr.Row(i))
				if !ok {
					return fmt.Errorf("row %d violates %d constraint(s), first nonzero: %v", i, len(violations), violations[0])
				}
			}
			fmt.Printf("all %d rows satisfy every constraint\n", tr.NumRows())
			return nil
		},
	}
	verifyCmd.Flags().StringVar(&verifyProgram, "program", "", "Program file (JSON)")
	verifyCmd.Flags().IntVar(&verifyRows, "rows", 0, "Trace row count (0 = program.NumRows)")
	verifyCmd.MarkFlagRequired("program")

	// fuzz command
	var fuzzChains int
	var fuzzSteps int
	var fuzzSeed int64
	var fuzzVerbose bool

	fuzzCmd := &cobra.Command{
		Use:   "fuzz",
		Short: "Run the concurrent fuzz harness against randomly generated basic blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary := fuzz.Run(fuzz.Config{
				Chains:        fuzzChains,
				StepsPerChain: fuzzSteps,
				Seed:          uint64(fuzzSeed),
				Verbose:       fuzzVerbose,
			})
			fmt.Printf("checked %d chains, %d failed\n", summary.Checked, summary.Failed)
			if summary.Failed > 0 {
				return fmt.Errorf("first failure: %w", summary.FirstFailure)
			}
			return nil
		},
	}
	fuzzCmd.Flags().IntVar(&fuzzChains, "chains", runtime.NumCPU(), "Number of independent fuzz chains")
	fuzzCmd.Flags().IntVar(&fuzzSteps, "steps", 16, "Execution steps generated per chain")
	fuzzCmd.Flags().Int64Var(&fuzzSeed, "seed", 1, "Base RNG seed")
	fuzzCmd.Flags().BoolVarP(&fuzzVerbose, "verbose", "v", false, "Verbose progress output")

	// verify-remote command
	var remoteProgram string
	var remoteRows int
	var remoteServer string

	verifyRemoteCmd := &cobra.Command{
		Use:   "verify-remote",
		Short: "Populate locally, then re-verify constraints via an external remoteverify subprocess",
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := tracefile.ReadProgramFile(remoteProgram)
			if err != nil {
				return fmt.Errorf("read program: %w", err)
			}
			numRows := remoteRows
			if numRows <= 0 {
				numRows = prog.NumRows
			}
			tr, _, err := populate(prog, numRows)
			if err != nil {
				return err
			}

			client, err := remoteverify.NewClient(remoteServer, "serve-constraints")
			if err != nil {
				return fmt.Errorf("start remote verifier: %w", err)
			}
			defer client.Close()

			rows := make([]trace.RowView, tr.NumRows())
			for i := range rows {
				rows[i] = tr.Row(i)
			}
			verdicts, err := client.VerifyBatch(rows)
			if err != nil {
				return fmt.Errorf("remote batch verify: %w", err)
			}
			for i, ok := range verdicts {
				if !ok {
					return fmt.Errorf("remote verifier rejected row %d", i)
				}
			}
			fmt.Printf("remote verifier accepted all %d rows\n", len(verdicts))
			return nil
		},
	}
	verifyRemoteCmd.Flags().StringVar(&remoteProgram, "program", "", "Program file (JSON)")
	verifyRemoteCmd.Flags().IntVar(&remoteRows, "rows", 0, "Trace row count (0 = program.NumRows)")
	verifyRemoteCmd.Flags().StringVar(&remoteServer, "server", "", "Path to a binary whose serve-constraints subcommand runs the remoteverify server (e.g. this binary)")
	verifyRemoteCmd.MarkFlagRequired("program")
	verifyRemoteCmd.MarkFlagRequired("server")

	// serve-constraints command: runs the remoteverify server protocol over
	// this process's own stdin/stdout, so this same binary can act as the
	// external verifier the verify-remote command talks to.
	serveCmd := &cobra.Command{
		Use:    "serve-constraints",
		Short:  "Run the remoteverify server protocol over stdin/stdout",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return remoteverify.ServeConstraints(os.Stdin, os.Stdout, trace.NumColumns())
		},
	}

	rootCmd.AddCommand(runCmd, verifyCmd, fuzzCmd, verifyRemoteCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// populate drives chip.FillRow over every step in prog against a fresh
// numRows-row trace, returning the filled trace and its chip for further
// inspection (e.g. the memory consistency log).
func populate(prog *tracefile.Program, numRows int) (*trace.Trace, *chip.Chip, error) {
	tr := trace.New(numRows)
	c := chip.New(tr, prog.PublicInput, prog.PublicOutput)
	for i, st := range prog.Steps {
		s := st
		if err := c.FillRow(i, &s); err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	for i := len(prog.Steps); i < numRows; i++ {
		if err := c.FillRow(i, nil); err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return tr, c, nil
}
