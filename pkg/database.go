package confreader

import (
	"fmt"
	"slices"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
	"golang.org/x/exp/maps"
)

// ApplicationFEMB is the FEMB column value of settings that belong to the
// whole WIEC application rather than to one FEMB.
const ApplicationFEMB = -1

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

type FEMBSettingEntry struct {
	RunNumber   int    `db:"RunNumber"`
	Session     string `db:"Session"`
	Application string `db:"Application"`
	FEMB        int    `db:"FEMB"`
	Param       string `db:"Param"`
	Value       int64  `db:"Value"`
}

type DetectorUnitEntry struct {
	RunNumber int    `db:"RunNumber"`
	Session   string `db:"Session"`
	Position  int    `db:"Position"`
	Name      string `db:"Name"`
}

const (
	insertFEMBSettings = "INSERT INTO FEMBSettings (RunNumber, Session, Application, FEMB, Param, Value) " +
		"VALUES (:RunNumber, :Session, :Application, :FEMB, :Param, :Value)"
	insertDetectorUnits = "INSERT INTO DetectorUnits (RunNumber, Session, Position, Name) " +
		"VALUES (:RunNumber, :Session, :Position, :Name)"
	selectFEMBSettings = "SELECT RunNumber, Session, Application, FEMB, Param, Value FROM FEMBSettings " +
		"WHERE RunNumber = ? ORDER BY Application, FEMB, Param"
	selectDetectorUnits = "SELECT RunNumber, Session, Position, Name FROM DetectorUnits " +
		"WHERE RunNumber = ? ORDER BY Position"
)

func toInt64[T bool | int64](value T) int64 {
	switch v := any(value).(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case int64:
		return v
	}
	return 0
}

func appendFEMBEntries[T bool | int64](entries []FEMBSettingEntry, base FEMBSettingEntry,
	param string, values map[string]T) ([]FEMBSettingEntry, error) {
	keys := maps.Keys(values)
	slices.Sort(keys)
	for _, key := range keys {
		application, femb, ok := SplitFEMBKey(key)
		if !ok {
			return nil, fmt.Errorf("invalid FEMB key %q in %s", key, param)
		}
		entry := base
		entry.Application = application
		entry.FEMB = femb
		entry.Param = param
		entry.Value = toInt64(values[key])
		entries = append(entries, entry)
	}
	return entries, nil
}

func appendApplicationEntries[T bool | int64](entries []FEMBSettingEntry, base FEMBSettingEntry,
	param string, values map[string]T) []FEMBSettingEntry {
	applications := maps.Keys(values)
	slices.Sort(applications)
	for _, application := range applications {
		entry := base
		entry.Application = application
		entry.FEMB = ApplicationFEMB
		entry.Param = param
		entry.Value = toInt64(values[application])
		entries = append(entries, entry)
	}
	return entries
}

// SettingEntries flattens the extracted WIEC parameters into database rows,
// sorted by parameter and key. Bools are stored as 0/1.
func (e *Extractor) SettingEntries(runNumber int) ([]FEMBSettingEntry, error) {
	if e.Pulser == nil {
		return nil, ErrNotExtracted
	}
	base := FEMBSettingEntry{RunNumber: runNumber, Session: e.SessionName}
	entries := make([]FEMBSettingEntry, 0)
	entries = appendApplicationEntries(entries, base, "pulser", e.Pulser)
	entries = appendApplicationEntries(entries, base, "pulse_period", e.PulsePeriod)

	var err error
	for _, p := range []struct {
		name   string
		values map[string]bool
	}{{"ac_couple", e.ACCouple}, {"leak_10x", e.Leak10x}, {"test_cap", e.TestCap}} {
		if entries, err = appendFEMBEntries(entries, base, p.name, p.values); err != nil {
			return nil, err
		}
	}
	for _, p := range []struct {
		name   string
		values map[string]int64
	}{{"baseline", e.Baseline}, {"gain", e.Gain}, {"peak_time", e.PeakTime}} {
		if entries, err = appendFEMBEntries(entries, base, p.name, p.values); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// DetectorUnitEntries returns the APA/CRP sequence as database rows.
func (e *Extractor) DetectorUnitEntries(runNumber int) ([]DetectorUnitEntry, error) {
	if e.APAs == nil {
		return nil, ErrNotExtracted
	}
	entries := make([]DetectorUnitEntry, len(e.APAs))
	for i, name := range e.APAs {
		entries[i] = DetectorUnitEntry{RunNumber: runNumber, Session: e.SessionName, Position: i, Name: name}
	}
	return entries, nil
}

// WriteRunConfiguration replaces the stored front-end configuration of a
// run with the content of e.
func WriteRunConfiguration(db *sqlx.DB, runNumber int, e *Extractor) (err error) {
	settings, err := e.SettingEntries(runNumber)
	if err != nil {
		return err
	}
	units, err := e.DetectorUnitEntries(runNumber)
	if err != nil {
		return err
	}

	if verbosity > 0 {
		message := fmt.Sprintf("Writing %d settings and %d detector units for run %d", len(settings), len(units), runNumber)
		logger.Info(message, "database")
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DELETE FROM FEMBSettings WHERE RunNumber = ?", runNumber); err != nil {
		return fmt.Errorf("error deleting FEMB settings of run %d: %w", runNumber, err)
	}
	if _, err = tx.Exec("DELETE FROM DetectorUnits WHERE RunNumber = ?", runNumber); err != nil {
		return fmt.Errorf("error deleting detector units of run %d: %w", runNumber, err)
	}
	if len(settings) > 0 {
		if verbosity > 2 {
			logger.Info(fmt.Sprintf("Query: %s", insertFEMBSettings), "database")
		}
		if _, err = tx.NamedExec(insertFEMBSettings, settings); err != nil {
			return fmt.Errorf("error inserting FEMB settings: %w", err)
		}
	}
	if len(units) > 0 {
		if verbosity > 2 {
			logger.Info(fmt.Sprintf("Query: %s", insertDetectorUnits), "database")
		}
		if _, err = tx.NamedExec(insertDetectorUnits, units); err != nil {
			return fmt.Errorf("error inserting detector units: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing run %d: %w", runNumber, err)
	}
	return nil
}

func ReadRunConfiguration(db *sqlx.DB, runNumber int) ([]FEMBSettingEntry, error) {
	if verbosity > 2 {
		logger.Info(fmt.Sprintf("Query: %s", selectFEMBSettings), "database")
	}
	rows, err := db.Queryx(selectFEMBSettings, runNumber)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return nil, errMessage
	}
	defer rows.Close()

	entries := make([]FEMBSettingEntry, 0)
	for rows.Next() {
		result := FEMBSettingEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return nil, errMessage
		}
		entries = append(entries, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading DB rows: %w", err)
	}
	return entries, nil
}

func ReadDetectorUnits(db *sqlx.DB, runNumber int) ([]string, error) {
	var entries []DetectorUnitEntry
	if err := db.Select(&entries, selectDetectorUnits, runNumber); err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	units := make([]string, len(entries))
	for i, entry := range entries {
		units[i] = entry.Name
	}
	return units, nil
}

// ParamValues rebuilds the mapping of one parameter from stored rows, keyed
// like the Extractor fields.
func ParamValues(entries []FEMBSettingEntry, param string) map[string]int64 {
	values := make(map[string]int64)
	for _, entry := range entries {
		if entry.Param != param {
			continue
		}
		key := entry.Application
		if entry.FEMB != ApplicationFEMB {
			key = FEMBKey(entry.Application, entry.FEMB)
		}
		values[key] = entry.Value
	}
	return values
}
