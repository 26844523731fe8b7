package confreader

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFEMBKey(t *testing.T) {
	assert.Equal(t, "wiec-crp4-wib101_femb3", FEMBKey("wiec-crp4-wib101", 3))

	application, femb, ok := SplitFEMBKey("wiec_femb_app_femb2")
	require.True(t, ok)
	assert.Equal(t, "wiec_femb_app", application)
	assert.Equal(t, 2, femb)

	for _, key := range []string{"wiec-crp4-wib101", "app_femb4", "app_femb", "app_fembx"} {
		_, _, ok := SplitFEMBKey(key)
		assert.False(t, ok, key)
	}
}

func TestGetFEMBs(t *testing.T) {
	db := openFixture(t)
	settings, ok := db.lookup("WIBSettings", "wib101-settings")
	require.True(t, ok)

	fembs, err := GetFEMBs(db, settings)
	require.NoError(t, err)
	for i, femb := range fembs {
		assert.Equal(t, fmt.Sprintf("wib101-femb%d", i), femb.ID)
	}
}

func TestGetFEMBsMissingRelation(t *testing.T) {
	db := parseOKS(t, oksDocument(`<obj class="WIBSettings" id="settings">
 <rel name="femb0" class="FEMBSettings" id="f0"/>
 <rel name="femb1" class="FEMBSettings" id="f1"/>
 <rel name="femb3" class="FEMBSettings" id="f3"/>
</obj>
<obj class="FEMBSettings" id="f0"/><obj class="FEMBSettings" id="f1"/><obj class="FEMBSettings" id="f3"/>`))
	settings, ok := db.lookup("WIBSettings", "settings")
	require.True(t, ok)

	_, err := GetFEMBs(db, settings)
	var missing *ErrAttributeMissing
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "femb2", missing.Attribute)
	assert.Equal(t, "settings", missing.ID)
	var notFound *ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "femb2", notFound.Relation)
}

func TestGetFEMBsUnset(t *testing.T) {
	db := parseOKS(t, oksDocument(`<obj class="WIBSettings" id="w">
 <rel name="femb0" class="FEMBSettings" id=""/>
 <rel name="femb1" class="FEMBSettings" id="f"/>
 <rel name="femb2" class="FEMBSettings" id="f"/>
 <rel name="femb3" class="FEMBSettings" id="f"/>
</obj>
<obj class="FEMBSettings" id="f"/>`))
	settings, ok := db.lookup("WIBSettings", "w")
	require.True(t, ok)

	_, err := GetFEMBs(db, settings)
	var missing *ErrAttributeMissing
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "femb0", missing.Attribute)
	assert.ErrorContains(t, err, "is not set")
}

func TestExtractFEMBField(t *testing.T) {
	db := openFixture(t)
	settings, ok := db.lookup("WIBSettings", "wib101-settings")
	require.True(t, ok)
	fembs, err := GetFEMBs(db, settings)
	require.NoError(t, err)

	peakTime := make(map[string]int64)
	require.NoError(t, ExtractFEMBField(db, peakTime, "peak_time", fembs, "app", readInt))
	assert.Equal(t, map[string]int64{"app_femb0": 3, "app_femb1": 2, "app_femb2": 1, "app_femb3": 0}, peakTime)

	testCap := make(map[string]bool)
	require.NoError(t, ExtractFEMBField(db, testCap, "test_cap", fembs, "app", readBool))
	assert.Equal(t, map[string]bool{"app_femb0": true, "app_femb1": false, "app_femb2": false, "app_femb3": false}, testCap)
}

func TestExtractFEMBFieldMissingAttribute(t *testing.T) {
	db := openFixture(t)
	settings, ok := db.lookup("WIBSettings", "wib101-settings")
	require.True(t, ok)
	fembs, err := GetFEMBs(db, settings)
	require.NoError(t, err)

	field := make(map[string]bool)
	err = ExtractFEMBField(db, field, "strobe_skip", fembs, "app", readBool)
	var missing *ErrAttributeMissing
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "strobe_skip", missing.Attribute)
	assert.Equal(t, "wib101-femb0", missing.ID)
}
