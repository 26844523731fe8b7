package confreader

import "fmt"

const (
	WIECApplicationClass    = "WIECApplication"
	ReadoutApplicationClass = "ReadoutApplication"
)

// GetApplications returns the applications of class applicationClass found
// in the segments of the session's root segment. Only one level of
// segments is walked.
func GetApplications(db *Database, session *Object, applicationClass string) ([]*Object, error) {
	rootSegment, err := db.RelationOne(session, "segment")
	if err != nil {
		return nil, err
	}
	segments, err := db.Relation(rootSegment, "segments")
	if err != nil {
		return nil, err
	}

	selected := make([]*Object, 0)
	for _, segment := range segments {
		applications, err := db.Relation(segment, "applications")
		if err != nil {
			return nil, err
		}
		for _, application := range applications {
			if application.Class == applicationClass {
				selected = append(selected, application)
			}
		}
	}

	if verbosity > 0 {
		message := fmt.Sprintf("Found %d %s in %d segments", len(selected), applicationClass, len(segments))
		logger.Info(message, "locator")
	}
	return selected, nil
}
