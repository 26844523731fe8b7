package writer

import (
	"errors"
	"fmt"
	"slices"

	hdf5 "github.com/jmbenlloch/go-hdf5"
	confreader "github.com/next-exp/offline_conf_reader/pkg"
	"golang.org/x/exp/maps"
)

// Writer stores the result of one extraction in an HDF5 file: a FEE group
// with one (key, value) table per parameter and the detector units.
type Writer struct {
	File              *hdf5.File
	Filename          string
	CompressionLevel  int
	RunGroup          *hdf5.Group
	FEEGroup          *hdf5.Group
	RunInfoTable      *hdf5.Dataset
	DetectorUnitTable *hdf5.Dataset
	ParamTables       map[string]*hdf5.Dataset
}

func NewWriter(filename string, compressionLevel int) (*Writer, error) {
	writer := &Writer{
		Filename:         filename,
		CompressionLevel: compressionLevel,
		ParamTables:      make(map[string]*hdf5.Dataset),
	}
	var err error
	if writer.File, err = openFile(filename); err != nil {
		return nil, err
	}
	if writer.RunGroup, err = createGroup(writer.File, "Run"); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.FEEGroup, err = createGroup(writer.File, "FEE"); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.RunInfoTable, err = createTable(writer.RunGroup, "runInfo", RunInfoHDF5{}, compressionLevel); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.DetectorUnitTable, err = createTable(writer.FEEGroup, "detector_units", DetectorUnitHDF5{}, compressionLevel); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	return writer, nil
}

func sortParamByKey[T bool | int64](name string, values map[string]T) ([]FEMBParamHDF5, error) {
	keys := maps.Keys(values)
	slices.Sort(keys)

	// The array MUST be allocated at creation, if not, HDF5 will panic
	// doing appends will not work
	sorted := make([]FEMBParamHDF5, len(keys))
	for i, key := range keys {
		var value int64
		switch v := any(values[key]).(type) {
		case bool:
			if v {
				value = 1
			}
		case int64:
			value = v
		}
		k, err := convertToHdf5String(name+".key", key)
		if err != nil {
			return nil, err
		}
		sorted[i] = FEMBParamHDF5{key: k, value: value}
	}
	return sorted, nil
}

func (w *Writer) paramTable(name string) (*hdf5.Dataset, error) {
	if table, ok := w.ParamTables[name]; ok {
		return table, nil
	}
	table, err := createTable(w.FEEGroup, name, FEMBParamHDF5{}, w.CompressionLevel)
	if err != nil {
		return nil, err
	}
	w.ParamTables[name] = table
	return table, nil
}

func (w *Writer) writeParam(name string, rows []FEMBParamHDF5) error {
	table, err := w.paramTable(name)
	if err != nil {
		return err
	}
	if err := writeArrayToTable(table, &rows); err != nil {
		return fmt.Errorf("error writing parameter %s: %w", name, err)
	}
	return nil
}

type paramRows struct {
	name string
	rows []FEMBParamHDF5
}

// WriteExtraction writes every implemented parameter of e. Reserved
// parameters are skipped. Keys, names and the run number are checked
// against their columns before anything is written.
func (w *Writer) WriteExtraction(runNumber int, e *confreader.Extractor) error {
	if e.Pulser == nil {
		return confreader.ErrNotExtracted
	}

	run, err := convertToInt32("runInfo.run_number", runNumber)
	if err != nil {
		return err
	}
	session, err := convertToHdf5String("runInfo.session", e.SessionName)
	if err != nil {
		return err
	}

	var params []paramRows
	for _, variable := range e.Variables() {
		value, _ := e.Lookup(variable.Name)
		var rows []FEMBParamHDF5
		switch v := value.(type) {
		case map[string]bool:
			rows, err = sortParamByKey(variable.Name, v)
		case map[string]int64:
			rows, err = sortParamByKey(variable.Name, v)
		default:
			continue
		}
		if err != nil {
			return err
		}
		params = append(params, paramRows{name: variable.Name, rows: rows})
	}

	units := make([]DetectorUnitHDF5, len(e.APAs))
	for i, name := range e.APAs {
		unit, err := convertToHdf5String("detector_units.name", name)
		if err != nil {
			return err
		}
		units[i] = DetectorUnitHDF5{position: int32(i), name: unit}
	}

	runInfo := RunInfoHDF5{run_number: run, session: session}
	if err := writeEntryToTable(w.RunInfoTable, runInfo); err != nil {
		return fmt.Errorf("error writing run info: %w", err)
	}
	for _, p := range params {
		if err := w.writeParam(p.name, p.rows); err != nil {
			return err
		}
	}
	if err := writeArrayToTable(w.DetectorUnitTable, &units); err != nil {
		return fmt.Errorf("error writing detector units: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	var errs []error

	names := maps.Keys(w.ParamTables)
	slices.Sort(names)
	for _, name := range names {
		if err := w.ParamTables[name].Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s table: %w", name, err))
		}
	}
	if w.DetectorUnitTable != nil {
		if err := w.DetectorUnitTable.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing detector units table: %w", err))
		}
	}
	if w.RunInfoTable != nil {
		if err := w.RunInfoTable.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing run info table: %w", err))
		}
	}
	if w.FEEGroup != nil {
		if err := w.FEEGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing FEE group: %w", err))
		}
	}
	if w.RunGroup != nil {
		if err := w.RunGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing run group: %w", err))
		}
	}
	if w.File != nil {
		if err := w.File.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing file: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
