package confreader

import (
	"fmt"
)

// DummyPath builds an extractor that reads nothing and leaves every
// parameter unset.
const DummyPath = "dummy"

type State int

const (
	Uninitialized State = iota
	Parsed
	Validated
	SessionResolved
	WIECExtracted
	ReadoutExtracted
	Complete
	Failed
)

var stateStrings = []string{
	"uninitialized",
	"parsed",
	"validated",
	"session-resolved",
	"wiec-extracted",
	"readout-extracted",
	"complete",
	"failed",
}

func (s State) String() string {
	if s < Uninitialized || s > Failed {
		return "unknown"
	}
	return stateStrings[s]
}

// Extractor holds the front-end parameters of one session of an OKS
// configuration. Per-FEMB maps are keyed by FEMBKey(application, femb),
// Pulser and PulsePeriod by application id.
type Extractor struct {
	OKSFilePath string `conf:"-"`
	SessionName string `conf:"-"`

	Buffer             Reserved[int64]   `conf:"buffer"`
	ACCouple           map[string]bool   `conf:"ac_couple"`
	PulseDAC           Reserved[int64]   `conf:"pulse_dac"`
	Pulser             map[string]bool   `conf:"pulser"`
	Baseline           map[string]int64  `conf:"baseline"`
	Gain               map[string]int64  `conf:"gain"`
	Leak               Reserved[int64]   `conf:"leak"`
	Leak10x            map[string]bool   `conf:"leak_10x"`
	PeakTime           map[string]int64  `conf:"peak_time"`
	EnableFEMBFakeData Reserved[bool]    `conf:"enable_femb_fake_data"`
	TestCap            map[string]bool   `conf:"test_cap"`
	APAs               []string          `conf:"APAs"`
	FEMBs              Reserved[[]int]   `conf:"FEMBs"`
	PulsePeriod        map[string]int64  `conf:"pulse_period"`
	PhaseGroup         Reserved[int64]   `conf:"phase_group"`
	Phases             Reserved[[]int64] `conf:"phases"`

	state State
}

// NewExtractor reads the front-end parameters of session from an OKS data
// file in a single pass. With DummyPath nothing is read.
func NewExtractor(oksFilePath string, sessionName string) (*Extractor, error) {
	e := &Extractor{OKSFilePath: oksFilePath, SessionName: sessionName}
	if oksFilePath == DummyPath {
		return e, nil
	}
	if err := e.extract(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Extractor) State() State {
	return e.state
}

func (e *Extractor) fail(err error) error {
	e.state = Failed
	logger.Error(err.Error())
	return err
}

func (e *Extractor) extract() error {
	e.ACCouple = make(map[string]bool)
	e.Pulser = make(map[string]bool)
	e.Baseline = make(map[string]int64)
	e.Gain = make(map[string]int64)
	e.Leak10x = make(map[string]bool)
	e.PeakTime = make(map[string]int64)
	e.TestCap = make(map[string]bool)
	e.PulsePeriod = make(map[string]int64)
	e.APAs = make([]string, 0)

	if verbosity > 0 {
		logger.Info(fmt.Sprintf("Reading configuration %s, session %s", e.OKSFilePath, e.SessionName), "extractor")
	}

	db, err := OpenDatabase(e.OKSFilePath)
	if err != nil {
		return e.fail(err)
	}
	e.state = Parsed

	if db.HasDataIncludes() {
		return e.fail(&ErrUnsupportedInclude{Filename: e.OKSFilePath, Includes: db.DataIncludes()})
	}
	e.state = Validated

	session, err := db.FindSession(e.SessionName)
	if err != nil {
		return e.fail(err)
	}
	e.state = SessionResolved

	if err := e.extractWIEC(db, session); err != nil {
		return e.fail(err)
	}
	e.state = WIECExtracted

	if err := e.extractReadout(db, session); err != nil {
		return e.fail(err)
	}
	e.state = ReadoutExtracted

	e.state = Complete
	if verbosity > 0 {
		message := fmt.Sprintf("Extracted %d FEMB entries, %d WIEC applications, detector units %v",
			len(e.Baseline), len(e.Pulser), e.APAs)
		logger.Info(message, "extractor")
	}
	return nil
}

func (e *Extractor) extractWIEC(db *Database, session *Object) error {
	applications, err := GetApplications(db, session, WIECApplicationClass)
	if err != nil {
		return err
	}

	boolFields := []struct {
		name  string
		field map[string]bool
	}{
		{"leak_10x", e.Leak10x},
		{"ac_couple", e.ACCouple},
		{"test_cap", e.TestCap},
	}
	intFields := []struct {
		name  string
		field map[string]int64
	}{
		{"peak_time", e.PeakTime},
		{"baseline", e.Baseline},
		{"gain", e.Gain},
	}

	for _, application := range applications {
		if verbosity > 0 {
			logger.Info(fmt.Sprintf("Reading WIEC application %s", application.ID), "extractor")
		}
		moduleConf, err := db.RelationOne(application, "wib_module_conf")
		if err != nil {
			return err
		}
		settings, err := db.RelationOne(moduleConf, "settings")
		if err != nil {
			return err
		}

		pulser, err := db.BoolAttribute(settings, "pulser")
		if err != nil {
			return err
		}
		e.Pulser[application.ID] = pulser

		wibPulser, err := db.RelationOne(settings, "wib_pulser")
		if err != nil {
			return err
		}
		period, err := db.IntAttribute(wibPulser, "pulse_period")
		if err != nil {
			return err
		}
		e.PulsePeriod[application.ID] = period

		fembs, err := GetFEMBs(db, settings)
		if err != nil {
			return err
		}
		for _, f := range boolFields {
			if err := ExtractFEMBField(db, f.field, f.name, fembs, application.ID, readBool); err != nil {
				return err
			}
		}
		for _, f := range intFields {
			if err := ExtractFEMBField(db, f.field, f.name, fembs, application.ID, readInt); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Extractor) extractReadout(db *Database, session *Object) error {
	applications, err := GetApplications(db, session, ReadoutApplicationClass)
	if err != nil {
		return err
	}
	for _, application := range applications {
		units, err := ReadoutDetectorUnits(db, application)
		if err != nil {
			return err
		}
		e.APAs = append(e.APAs, units...)
	}
	return nil
}
