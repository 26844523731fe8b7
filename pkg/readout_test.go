package confreader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectorUnitsFromConnection(t *testing.T) {
	tests := []struct {
		id   string
		want []string
	}{
		{"apa1-crp2", []string{"APA1", "CRP2"}},
		{"crp4_wib101_link0", []string{"CRP4"}},
		{"np04_apa3_wib5", []string{"APA3"}},
		{"ru_apacrp9_tp", []string{"APACRP9", "APACRP9"}},
		{"wib-101-link0", []string{}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectorUnitsFromConnection(tt.id))
		})
	}
}

func TestConnectionTokens(t *testing.T) {
	assert.Equal(t, []string{"CRP4", "WIB101", "LINK0"}, ConnectionTokens("crp4_wib101-link0"))
}

func TestReadoutDetectorUnits(t *testing.T) {
	db := openFixture(t)

	ru, ok := db.lookup(ReadoutApplicationClass, "ru-mixed")
	require.True(t, ok)
	units, err := ReadoutDetectorUnits(db, ru)
	require.NoError(t, err)
	assert.Equal(t, []string{"APA1", "CRP2", "APACRP9", "APACRP9"}, units)

	// A readout application without connections yields no units.
	connection, ok := db.lookup("DetectorToDaqConnection", "apa1-crp2")
	require.True(t, ok)
	units, err = ReadoutDetectorUnits(db, connection)
	require.NoError(t, err)
	assert.Empty(t, units)
}
