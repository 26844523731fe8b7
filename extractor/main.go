package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	confreader "github.com/next-exp/offline_conf_reader/pkg"
	"github.com/next-exp/offline_conf_reader/pkg/writer"
	"github.com/spf13/cobra"
)

// Version can be set during build time
var Version = "dev"

var logger Logger

func init() {
	logger = NewLogger(os.Stdout, os.Stderr, slog.LevelDebug)
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "extractor",
		Short:         "Front-end configuration reader for OKS session files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(extractCmd(), showCmd(), variablesCmd(), versionCmd())
	return cmd
}

func extractCmd() *cobra.Command {
	var (
		configFilename string
		override       Configuration
		storeDB        bool
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the front-end parameters of a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			configuration, err := LoadConfiguration(configFilename)
			if err != nil {
				return fmt.Errorf("error reading configuration file: %w", err)
			}
			flags := cmd.Flags()
			if flags.Changed("file") {
				configuration.FileIn = override.FileIn
			}
			if flags.Changed("session") {
				configuration.Session = override.Session
			}
			if flags.Changed("format") {
				configuration.OutputFormat = override.OutputFormat
			}
			if flags.Changed("verbosity") {
				configuration.Verbosity = override.Verbosity
			}
			if flags.Changed("hdf5") {
				configuration.FileOut = override.FileOut
				configuration.WriteHDF5 = true
			}
			if flags.Changed("run") {
				configuration.RunNumber = override.RunNumber
			}
			if flags.Changed("db") {
				configuration.NoDB = !storeDB
			}
			return runExtraction(configuration, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&configFilename, "config", "c", "", "Configuration file path (JSON)")
	cmd.Flags().StringVarP(&override.FileIn, "file", "f", "", "OKS data file, or dummy")
	cmd.Flags().StringVarP(&override.Session, "session", "s", "", "Session name")
	cmd.Flags().StringVar(&override.OutputFormat, "format", formatYAML, "Output format (yaml, json)")
	cmd.Flags().IntVarP(&override.Verbosity, "verbosity", "v", 0, "Verbosity level")
	cmd.Flags().StringVar(&override.FileOut, "hdf5", "", "Write the parameters to this HDF5 file")
	cmd.Flags().IntVar(&override.RunNumber, "run", 0, "Run number used for HDF5 and DB output")
	cmd.Flags().BoolVar(&storeDB, "db", false, "Store the parameters in the conditions database")
	return cmd
}

func runExtraction(configuration Configuration, out io.Writer) error {
	if err := configuration.Validate(); err != nil {
		return err
	}

	confreader.SetLogger(logger)
	confreader.SetVerbosity(configuration.Verbosity)
	if configuration.Verbosity > 0 {
		printConfiguration(configuration, logger)
	}

	extractor, err := confreader.NewExtractor(configuration.FileIn, configuration.Session)
	if err != nil {
		var includeErr *confreader.ErrUnsupportedInclude
		if errors.As(err, &includeErr) {
			logger.Error("consolidate the configuration into a single file before extracting it")
		}
		return err
	}

	if err := writeResult(out, extractor, configuration.OutputFormat); err != nil {
		return err
	}

	if configuration.WriteHDF5 {
		if err := writeHDF5(configuration, extractor); err != nil {
			return err
		}
	}

	if !configuration.NoDB {
		dbConn, err := confreader.ConnectToDatabase(configuration.User, configuration.Passwd, configuration.Host, configuration.DBName)
		if err != nil {
			return fmt.Errorf("error connecting to database: %w", err)
		}
		defer dbConn.Close()
		if err := confreader.WriteRunConfiguration(dbConn, configuration.RunNumber, extractor); err != nil {
			return err
		}
		if configuration.Verbosity > 0 {
			logger.Info(fmt.Sprintf("Run %d stored in %s", configuration.RunNumber, configuration.DBName), "main")
		}
	}
	return nil
}

func writeHDF5(configuration Configuration, extractor *confreader.Extractor) error {
	w, err := writer.NewWriter(configuration.FileOut, configuration.CompressionLevel)
	if err != nil {
		return err
	}
	if err := w.WriteExtraction(configuration.RunNumber, extractor); err != nil {
		return errors.Join(err, w.Close())
	}
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Parameters written to %s", configuration.FileOut), "main")
	}
	return w.Close()
}

func variablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variables",
		Short: "List the parameters the extractor provides",
		RunE: func(cmd *cobra.Command, args []string) error {
			placeholder, err := confreader.NewExtractor(confreader.DummyPath, "")
			if err != nil {
				return err
			}
			return writeVariables(cmd.OutOrStdout(), placeholder.Variables())
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "extractor v%s\n", Version)
		},
	}
}
