package confreader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixturePath = "testdata/np04_coldbox.data.xml"
const fixtureSession = "np04-coldbox"

// oksDocument wraps objects in an oks-data document with the given includes.
func oksDocument(objects string, includes ...string) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"ASCII\"?>\n<oks-data>\n<include>\n")
	b.WriteString(" <file path=\"schema/confmodel/dunedaq.schema.xml\"/>\n")
	for _, include := range includes {
		b.WriteString(" <file path=\"" + include + "\"/>\n")
	}
	b.WriteString("</include>\n")
	b.WriteString(objects)
	b.WriteString("\n</oks-data>\n")
	return b.String()
}

func writeOKS(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.data.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func parseOKS(t *testing.T, content string) *Database {
	t.Helper()
	db, err := ParseDatabase("inline.data.xml", []byte(content))
	require.NoError(t, err)
	return db
}

func openFixture(t *testing.T) *Database {
	t.Helper()
	db, err := OpenDatabase(fixturePath)
	require.NoError(t, err)
	return db
}

// wiecObjects is a minimal session with one WIEC application whose FEMB
// objects carry fembAttrs.
func wiecObjects(application string, fembAttrs string) string {
	var b strings.Builder
	b.WriteString(`<obj class="Session" id="s"><rel name="segment" class="Segment" id="root"/></obj>
<obj class="Segment" id="root"><rel name="segments" num="1"><ref class="Segment" id="seg"/></rel></obj>
<obj class="Segment" id="seg"><rel name="applications" num="1"><ref class="WIECApplication" id="` + application + `"/></rel></obj>
<obj class="WIECApplication" id="` + application + `"><rel name="wib_module_conf" class="WIBModuleConf" id="conf"/></obj>
<obj class="WIBModuleConf" id="conf"><rel name="settings" class="WIBSettings" id="settings"/></obj>
<obj class="WIBPulserSettings" id="pulser"><attr name="pulse_period" type="u32" val="10"/></obj>
<obj class="WIBSettings" id="settings">
 <attr name="pulser" type="bool" val="1"/>
 <rel name="wib_pulser" class="WIBPulserSettings" id="pulser"/>
 <rel name="femb0" class="FEMBSettings" id="f0"/>
 <rel name="femb1" class="FEMBSettings" id="f1"/>
 <rel name="femb2" class="FEMBSettings" id="f2"/>
 <rel name="femb3" class="FEMBSettings" id="f3"/>
</obj>
`)
	for _, id := range []string{"f0", "f1", "f2", "f3"} {
		b.WriteString(`<obj class="FEMBSettings" id="` + id + `">` + fembAttrs + "</obj>\n")
	}
	return b.String()
}

const allFEMBAttrs = `<attr name="ac_couple" type="bool" val="1"/><attr name="baseline" type="u8" val="2"/>` +
	`<attr name="gain" type="u8" val="3"/><attr name="leak_10x" type="bool" val="0"/>` +
	`<attr name="peak_time" type="u8" val="1"/><attr name="test_cap" type="bool" val="1"/>`
