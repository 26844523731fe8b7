package main

import (
	"encoding/json"
	"fmt"
	"os"
)

type Configuration struct {
	FileIn           string `json:"file_in"`
	Session          string `json:"session"`
	Verbosity        int    `json:"verbosity"`
	OutputFormat     string `json:"output_format"`
	FileOut          string `json:"file_out"`
	WriteHDF5        bool   `json:"write_hdf5"`
	CompressionLevel int    `json:"compression_level"`
	NoDB             bool   `json:"no_db"`
	Host             string `json:"host"`
	User             string `json:"user"`
	Passwd           string `json:"pass"`
	DBName           string `json:"dbname"`
	RunNumber        int    `json:"run_number"`
}

func defaultConfiguration() Configuration {
	var config Configuration
	config.Verbosity = 0
	config.OutputFormat = formatYAML
	config.WriteHDF5 = false
	config.CompressionLevel = 4
	config.NoDB = true
	config.Host = "localhost"
	config.User = "confwriter"
	config.Passwd = ""
	config.DBName = "DUNEDAQConf"
	config.RunNumber = 0
	return config
}

// LoadConfiguration returns the defaults overridden by the JSON file, if
// one is given.
func LoadConfiguration(filename string) (Configuration, error) {
	config := defaultConfiguration()
	if filename == "" {
		return config, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}

func (c Configuration) Validate() error {
	if c.FileIn == "" {
		return fmt.Errorf("no configuration file to read, set file_in or --file")
	}
	if c.FileIn != "dummy" && c.Session == "" {
		return fmt.Errorf("no session name, set session or --session")
	}
	if c.OutputFormat != formatYAML && c.OutputFormat != formatJSON {
		return fmt.Errorf("invalid output format %q: must be %q or %q", c.OutputFormat, formatYAML, formatJSON)
	}
	if c.WriteHDF5 && c.FileOut == "" {
		return fmt.Errorf("write_hdf5 is set but file_out is empty")
	}
	if c.CompressionLevel < 0 || c.CompressionLevel > 9 {
		return fmt.Errorf("compression_level must be between 0 and 9, got %d", c.CompressionLevel)
	}
	return nil
}

func printConfiguration(config Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("Session: %s", config.Session), "config")
	logger.Info(fmt.Sprintf("Output format: %s", config.OutputFormat), "config")
	logger.Info(fmt.Sprintf("Write HDF5: %t", config.WriteHDF5), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
}
