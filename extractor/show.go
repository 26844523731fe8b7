package main

import (
	"encoding/json"
	"fmt"
	"io"

	sqlx "github.com/jmoiron/sqlx"
	confreader "github.com/next-exp/offline_conf_reader/pkg"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// storedRun is the front-end configuration of a run as kept in the
// conditions database.
type storedRun struct {
	RunNumber  int                         `yaml:"run_number" json:"run_number"`
	Session    string                      `yaml:"session_name" json:"session_name"`
	Parameters map[string]map[string]int64 `yaml:"parameters" json:"parameters"`
	APAs       []string                    `yaml:"APAs" json:"APAs"`
}

func readStoredRun(db *sqlx.DB, runNumber int) (*storedRun, error) {
	entries, err := confreader.ReadRunConfiguration(db, runNumber)
	if err != nil {
		return nil, err
	}
	units, err := confreader.ReadDetectorUnits(db, runNumber)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 && len(units) == 0 {
		return nil, fmt.Errorf("run %d has no stored configuration", runNumber)
	}

	run := &storedRun{
		RunNumber:  runNumber,
		Parameters: make(map[string]map[string]int64),
		APAs:       units,
	}
	for _, entry := range entries {
		run.Session = entry.Session
		if _, ok := run.Parameters[entry.Param]; !ok {
			run.Parameters[entry.Param] = confreader.ParamValues(entries, entry.Param)
		}
	}
	return run, nil
}

func writeStoredRun(w io.Writer, run *storedRun, format string) error {
	switch format {
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(run); err != nil {
			return fmt.Errorf("error writing YAML: %w", err)
		}
		return encoder.Close()
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(run); err != nil {
			return fmt.Errorf("error writing JSON: %w", err)
		}
		return nil
	}
	return fmt.Errorf("invalid output format %q", format)
}

func showCmd() *cobra.Command {
	var (
		configFilename string
		runNumber      int
		format         string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the configuration stored in the conditions database for a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			configuration, err := LoadConfiguration(configFilename)
			if err != nil {
				return fmt.Errorf("error reading configuration file: %w", err)
			}
			if cmd.Flags().Changed("format") {
				configuration.OutputFormat = format
			}
			if configuration.OutputFormat != formatYAML && configuration.OutputFormat != formatJSON {
				return fmt.Errorf("invalid output format %q: must be %q or %q", configuration.OutputFormat, formatYAML, formatJSON)
			}

			dbConn, err := confreader.ConnectToDatabase(configuration.User, configuration.Passwd, configuration.Host, configuration.DBName)
			if err != nil {
				return fmt.Errorf("error connecting to database: %w", err)
			}
			defer dbConn.Close()

			run, err := readStoredRun(dbConn, runNumber)
			if err != nil {
				return err
			}
			return writeStoredRun(cmd.OutOrStdout(), run, configuration.OutputFormat)
		},
	}

	cmd.Flags().StringVarP(&configFilename, "config", "c", "", "Configuration file path (JSON)")
	cmd.Flags().IntVar(&runNumber, "run", 0, "Run number")
	cmd.Flags().StringVar(&format, "format", formatYAML, "Output format (yaml, json)")
	cmd.MarkFlagRequired("run")
	return cmd
}
