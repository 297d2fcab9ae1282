package approval

import (
	"errors"
	"fmt"
)

// ErrNoProject is returned when a document has no project to open.
var ErrNoProject = errors.New("document has no project")

var routeSegments = map[Kind]string{
	KindConcept:        "concept",
	KindProjectPlan:    "project",
	KindProgressReport: "progress",
	KindStudentReport:  "student",
	KindProjectClosure: "closure",
}

// RouteSegment returns the project page segment for the kind.
func (k Kind) RouteSegment() (string, bool) {
	seg, ok := routeSegments[k]
	return seg, ok
}

// ProjectPath returns the path of the page that shows d.
func ProjectPath(d Document) (string, error) {
	if d.ProjectID == 0 {
		return "", ErrNoProject
	}
	seg, ok := d.Kind.RouteSegment()
	if !ok {
		return "", fmt.Errorf("no page for document kind %q", d.Kind)
	}
	return fmt.Sprintf("/projects/%d/%s", d.ProjectID, seg), nil
}
