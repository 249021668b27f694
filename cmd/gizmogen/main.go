package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/imguibundle/gizmogen/amalgamate"
	"github.com/imguibundle/gizmogen/autogen"
	"github.com/imguibundle/gizmogen/config"
	"github.com/imguibundle/gizmogen/logger"
	"github.com/spf13/cobra"
)

type cliOptions struct {
	bundleDir  string
	configFile string
	quiet      bool
}

func (o *cliOptions) layout() (*autogen.Layout, error) {
	if o.bundleDir != "" {
		return autogen.NewLayout(o.bundleDir), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return autogen.FindLayout(wd)
}

func (o *cliOptions) baseline() (*config.Options, error) {
	if o.configFile == "" {
		return config.Default(), nil
	}
	opts, err := config.Load(o.configFile)
	if err != nil {
		if cErr := (&config.Error{}); errors.As(err, &cErr) {
			return nil, errors.New(cErr.String())
		}
		return nil, err
	}
	return opts, nil
}

func (o *cliOptions) logger(w io.Writer) *logger.Logger {
	log := logger.New(w)
	if o.quiet {
		log.MinLevel = logger.WARN
	}
	return log
}

func newCLI(stdout, stderr io.Writer) *cobra.Command {
	var opts cliOptions

	generate := func(cmd *cobra.Command, args []string) error {
		l, err := opts.layout()
		if err != nil {
			return err
		}
		baseline, err := opts.baseline()
		if err != nil {
			return err
		}
		var stats io.Writer
		if !opts.quiet {
			stats = stdout
		}
		return autogen.Generate(l, baseline, autogen.DefaultPlan(), opts.logger(stderr), stats)
	}

	root := &cobra.Command{
		Use:           "gizmogen",
		Short:         "Generate the pybind11 bindings and Python stub of ImGuizmo",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          generate,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&opts.bundleDir, "bundle-dir", "", "imgui bundle checkout (default: found from the working directory)")
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "TOML file merged over the default generator options")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "only print warnings and errors")

	root.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Generate the bindings (the default)",
		Args:  cobra.NoArgs,
		RunE:  generate,
	})

	root.AddCommand(&cobra.Command{
		Use:   "targets",
		Short: "List the processed and skipped headers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			autogen.DefaultPlan().WriteTable(stdout)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "amalgamate <header>",
		Short: "Print the amalgamation of one header of the STL subdirectory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := opts.layout()
			if err != nil {
				return err
			}
			code, err := amalgamate.Content(l.AmalgamationOptions(args[0]))
			if err != nil {
				return err
			}
			_, err = io.WriteString(stdout, code)
			return err
		},
	})

	return root
}

func main() {
	cmd := newCLI(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gizmogen:", err)
		os.Exit(1)
	}
}
