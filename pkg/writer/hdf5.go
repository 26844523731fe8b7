package writer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/jmbenlloch/go-hdf5"
)

// FEMBParamHDF5 is one row of a parameter table: the mapping key and its
// value, bools stored as 0/1.
type FEMBParamHDF5 struct {
	key   [STRLEN]byte
	value int64
}

type DetectorUnitHDF5 struct {
	position int32
	name     [STRLEN]byte
}

type RunInfoHDF5 struct {
	run_number int32
	session    [STRLEN]byte
}

const STRLEN = 64

func convertToHdf5String(column string, s string) ([STRLEN]byte, error) {
	var byteArray [STRLEN]byte
	if len(s) > STRLEN {
		return byteArray, &ErrOutOfRange{Column: column, Value: s}
	}
	copy(byteArray[:], s)
	return byteArray, nil
}

func convertToInt32(column string, v int) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, &ErrOutOfRange{Column: column, Value: strconv.Itoa(v)}
	}
	return int32(v), nil
}

func openFile(fname string) (*hdf5.File, error) {
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, &ErrOpenFile{Filename: fname, Err: err}
	}
	return f, nil
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		return nil, &ErrCreateGroup{GroupName: groupName, Err: err}
	}
	return g, nil
}

func createTable(group *hdf5.Group, name string, datatype interface{}, compressionLevel int) (*hdf5.Dataset, error) {
	dims := []uint{0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims)}
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	defer fileSpace.Close()

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	defer plist.Close()

	chunks := []uint{1024}
	if err := plist.SetChunk(chunks); err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	if err := plist.SetDeflate(compressionLevel); err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	return dset, nil
}

func writeEntryToTable[T any](dataset *hdf5.Dataset, data T) error {
	array := []T{data}
	return writeArrayToTable(dataset, &array)
}

// writeArrayToTable appends data at the end of a one dimensional table.
func writeArrayToTable[T any](dataset *hdf5.Dataset, data *[]T) error {
	length := uint(len(*data))
	if length == 0 {
		return nil
	}
	dims := []uint{length}
	dataspace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return fmt.Errorf("error creating dataspace: %w", err)
	}
	defer dataspace.Close()

	// extend
	current := dataset.Space()
	dimsGot, _, err := current.SimpleExtentDims()
	current.Close()
	if err != nil {
		return fmt.Errorf("error reading table size: %w", err)
	}
	rowsInFile := dimsGot[0]
	if err := dataset.Resize([]uint{rowsInFile + length}); err != nil {
		return fmt.Errorf("error resizing table: %w", err)
	}
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{rowsInFile}
	count := []uint{length}
	if err := filespace.SelectHyperslab(start, nil, count, nil); err != nil {
		return fmt.Errorf("error selecting hyperslab: %w", err)
	}

	if err := dataset.WriteSubset(data, dataspace, filespace); err != nil {
		return fmt.Errorf("error writing table: %w", err)
	}
	return nil
}
