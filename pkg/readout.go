package confreader

import (
	"fmt"
	"strings"
)

// DetectorTypes are the detector unit tags recognised in connection names.
var DetectorTypes = []string{"CRP", "APA"}

// ConnectionTokens normalises a connection id and splits it into tokens.
func ConnectionTokens(id string) []string {
	normalized := strings.ReplaceAll(strings.ToUpper(id), "_", "-")
	return strings.Split(normalized, "-")
}

// DetectorUnitsFromConnection returns the tokens of a connection id that
// contain a detector type. A token matching several types is returned once
// per match.
func DetectorUnitsFromConnection(id string) []string {
	units := make([]string, 0)
	for _, token := range ConnectionTokens(id) {
		for _, detectorType := range DetectorTypes {
			if strings.Contains(token, detectorType) {
				units = append(units, token)
			}
		}
	}
	return units
}

// ReadoutDetectorUnits collects the detector units named by the
// connections a readout application contains, in connection order.
func ReadoutDetectorUnits(db *Database, application *Object) ([]string, error) {
	connections, err := db.Relation(application, "contains")
	if err != nil {
		return nil, err
	}

	units := make([]string, 0)
	for _, connection := range connections {
		units = append(units, DetectorUnitsFromConnection(connection.ID)...)
	}

	if verbosity > 1 {
		message := fmt.Sprintf("%s: %d connections, detector units %v", application.ID, len(connections), units)
		logger.Info(message, "readout")
	}
	return units, nil
}
