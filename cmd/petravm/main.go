// Command petravm is a thin CLI driver over the interpreter, validator,
// and disassembler: load a JSON program image, run it, validate its
// trace, or just print its disassembly. It is not part of the core
// engine's public contract — a real deployment drives interp/validator
// directly from its own harness.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petravm/petravm/field"
	"github.com/petravm/petravm/internal/disasm"
	"github.com/petravm/petravm/internal/image"
	"github.com/petravm/petravm/internal/logging"
	"github.com/petravm/petravm/interp"
	"github.com/petravm/petravm/isa"
	"github.com/petravm/petravm/validator"
)

func main() {
	var logLevel string
	var logJSON string
	var frameSizesOverride string

	root := &cobra.Command{
		Use:   "petravm",
		Short: "PetraVM execution engine CLI",
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&logJSON, "log-json", "", "path to also write JSON logs to (disabled if empty)")
	root.PersistentFlags().StringVar(&frameSizesOverride, "frame-sizes", "", "comma-separated pc=size overrides merged over the image's frame_sizes table")

	newLogger := func() (*slog.Logger, func() error, error) {
		level, err := parseLevel(logLevel)
		if err != nil {
			return nil, nil, err
		}
		return logging.New(level, logJSON)
	}

	runCmd := &cobra.Command{
		Use:   "run <image.json>",
		Short: "Run a program image to completion and print its boundary values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeFn, err := newLogger()
			if err != nil {
				return err
			}
			defer closeFn()

			img, err := loadImage(args[0], frameSizesOverride)
			if err != nil {
				return err
			}

			i := interp.New(img.ROM, isa.Generic(), img.Vrom, img.FrameSizes, img.InitialPC, 0, logger)
			tr, err := i.Run()
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}

			fmt.Printf("halted: pc=%#x fp=%d ts=%d\n", uint32(tr.Boundary.FinalPC), tr.Boundary.FinalFP, tr.Boundary.FinalTS)
			return nil
		},
	}

	disasmCmd := &cobra.Command{
		Use:   "disasm <image.json>",
		Short: "Print a program image's disassembly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := loadImage(args[0], frameSizesOverride)
			if err != nil {
				return err
			}
			fmt.Print(disasm.Program(img.ROM))
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate <image.json>",
		Short: "Run a program image and validate its trace's channel balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeFn, err := newLogger()
			if err != nil {
				return err
			}
			defer closeFn()

			img, err := loadImage(args[0], frameSizesOverride)
			if err != nil {
				return err
			}

			i := interp.New(img.ROM, isa.Generic(), img.Vrom, img.FrameSizes, img.InitialPC, 0, logger)
			tr, err := i.Run()
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}

			res, err := validator.Validate(tr, img.ROM)
			if err != nil {
				return fmt.Errorf("validate: %w", err)
			}
			if res.OK {
				fmt.Println("balanced")
				return nil
			}
			fmt.Println("unbalanced:")
			for t, n := range res.StateUnbalanced {
				fmt.Printf("  state %+v: %d\n", t, n)
			}
			for t, n := range res.PromUnbalanced {
				fmt.Printf("  prom %+v: %d\n", t, n)
			}
			for t, n := range res.VromUnbalanced {
				fmt.Printf("  vrom %+v: %d\n", t, n)
			}
			return fmt.Errorf("trace failed validation")
		},
	}

	root.AddCommand(runCmd, disasmCmd, validateCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown --log-level %q", s)
	}
}

// loadImage reads and decodes a program image, then merges any
// --frame-sizes overrides over its frame_sizes table.
func loadImage(path, overrides string) (*image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := image.Load(f)
	if err != nil {
		return nil, err
	}
	if err := mergeFrameSizeOverrides(img, overrides); err != nil {
		return nil, err
	}
	return img, nil
}

func mergeFrameSizeOverrides(img *image.Image, overrides string) error {
	if overrides == "" {
		return nil
	}
	for _, pair := range strings.Split(overrides, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("--frame-sizes: malformed entry %q, want pc=size", pair)
		}
		pc, err := strconv.ParseUint(strings.TrimSpace(k), 10, 32)
		if err != nil {
			return fmt.Errorf("--frame-sizes: bad pc %q: %w", k, err)
		}
		size, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
		if err != nil {
			return fmt.Errorf("--frame-sizes: bad size %q: %w", v, err)
		}
		img.FrameSizes[field.B32(pc)] = uint32(size)
	}
	return nil
}
