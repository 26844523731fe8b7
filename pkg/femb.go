package confreader

import (
	"fmt"
	"strconv"
	"strings"
)

// NumFEMBs is the number of front-end mother boards read out by one WIB.
const NumFEMBs = 4

const fembKeySeparator = "_femb"

// FEMBKey builds the key of a per-FEMB mapping entry.
func FEMBKey(application string, femb int) string {
	return application + fembKeySeparator + strconv.Itoa(femb)
}

// SplitFEMBKey is the inverse of FEMBKey.
func SplitFEMBKey(key string) (string, int, bool) {
	i := strings.LastIndex(key, fembKeySeparator)
	if i < 0 {
		return "", 0, false
	}
	femb, err := strconv.Atoi(key[i+len(fembKeySeparator):])
	if err != nil || femb < 0 || femb >= NumFEMBs {
		return "", 0, false
	}
	return key[:i], femb, true
}

// GetFEMBs resolves the femb0..femb3 relations of a WIB settings object in
// index order. A FEMB that is unset or dangling is an *ErrAttributeMissing.
func GetFEMBs(db *Database, settings *Object) ([NumFEMBs]*Object, error) {
	var fembs [NumFEMBs]*Object
	for i := range fembs {
		name := "femb" + strconv.Itoa(i)
		femb, err := db.RelationOne(settings, name)
		if err != nil {
			return fembs, &ErrAttributeMissing{Class: settings.Class, ID: settings.ID, Attribute: name, Err: err}
		}
		fembs[i] = femb
	}
	return fembs, nil
}

// ExtractFEMBField reads attribute name from every FEMB and stores it in
// field under FEMBKey(prefix, i).
func ExtractFEMBField[T any](db *Database, field map[string]T, name string, fembs [NumFEMBs]*Object, prefix string,
	read func(*Database, *Object, string) (T, error)) error {
	for i, femb := range fembs {
		value, err := read(db, femb, name)
		if err != nil {
			return err
		}
		key := FEMBKey(prefix, i)
		field[key] = value
		if verbosity > 1 {
			logger.Info(fmt.Sprintf("%s[%s] = %v", name, key, value), "femb")
		}
	}
	return nil
}

func readBool(db *Database, obj *Object, name string) (bool, error) {
	return db.BoolAttribute(obj, name)
}

func readInt(db *Database, obj *Object, name string) (int64, error) {
	return db.IntAttribute(obj, name)
}
