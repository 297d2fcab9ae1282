// Package approval models documents awaiting approval and the pure
// operations over them: classification, filtering, ordering and bump
// request construction.
package approval

import "strings"

// Kind identifies the type of project document.
type Kind string

const (
	KindConcept        Kind = "concept"
	KindProjectPlan    Kind = "project_plan"
	KindProgressReport Kind = "progress_report"
	KindStudentReport  Kind = "student_report"
	KindProjectClosure Kind = "project_closure"

	// KindAll is the selection sentinel standing for every kind.
	KindAll Kind = "all"
)

// Kinds lists every document kind in display order.
var Kinds = []Kind{
	KindConcept,
	KindProjectPlan,
	KindProgressReport,
	KindStudentReport,
	KindProjectClosure,
}

// Label returns a human readable name for the kind.
func (k Kind) Label() string {
	switch k {
	case KindConcept:
		return "Concept Plan"
	case KindProjectPlan:
		return "Project Plan"
	case KindProgressReport:
		return "Progress Report"
	case KindStudentReport:
		return "Student Report"
	case KindProjectClosure:
		return "Project Closure"
	case KindAll:
		return "All"
	default:
		return string(k)
	}
}

// Level is a step in the approval chain.
type Level string

const (
	LevelProjectLead      Level = "project_lead"
	LevelBusinessAreaLead Level = "business_area_lead"
	LevelDirectorate      Level = "directorate"

	// LevelNone means every approval has been granted.
	LevelNone Level = "none"
	// LevelUnset disables approval level filtering.
	LevelUnset Level = "unset"
)

// Levels lists the approval chain in the order approvals are granted.
var Levels = []Level{LevelProjectLead, LevelBusinessAreaLead, LevelDirectorate}

// ParseLevel parses a level name. The empty string parses as LevelUnset.
func ParseLevel(s string) (Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch Level(s) {
	case "", LevelUnset:
		return LevelUnset, true
	case LevelProjectLead, LevelBusinessAreaLead, LevelDirectorate, LevelNone:
		return Level(s), true
	}
	switch s {
	case "lead", "projectlead":
		return LevelProjectLead, true
	case "ba", "businessarealead":
		return LevelBusinessAreaLead, true
	}
	return "", false
}

// Label returns a human readable name for the level.
func (l Level) Label() string {
	switch l {
	case LevelProjectLead:
		return "Project Lead"
	case LevelBusinessAreaLead:
		return "Business Area Lead"
	case LevelDirectorate:
		return "Directorate"
	case LevelNone:
		return "Approved"
	case LevelUnset:
		return "Any"
	default:
		return string(l)
	}
}

// Status is the lifecycle label of a document.
type Status string

const (
	StatusNew        Status = "new"
	StatusRevising   Status = "revising"
	StatusInReview   Status = "inreview"
	StatusInApproval Status = "inapproval"
	StatusApproved   Status = "approved"
)

// Contact identifies a platform user.
type Contact struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Name returns "First Last", or the email when no name is set.
func (c Contact) Name() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return c.Email
	}
	return name
}

// IsZero reports whether no identity is set.
func (c Contact) IsZero() bool {
	return c == Contact{}
}

// Document is one artifact pending approval, as supplied by the platform.
// Bumpability and contact classification are computed upstream and trusted.
type Document struct {
	ID               int    `json:"document_id"`
	ProjectID        int    `json:"project_id"`
	Kind             Kind   `json:"kind"`
	Title            string `json:"title"`
	BusinessAreaName string `json:"business_area_name"`
	Status           Status `json:"status"`

	ProjectLeadApproved      bool `json:"project_lead_approval_granted"`
	BusinessAreaLeadApproved bool `json:"business_area_lead_approval_granted"`
	DirectorateApproved      bool `json:"directorate_approval_granted"`

	ActionTakerID        int    `json:"action_taker_id"`
	ActionTakerEmail     string `json:"action_taker_email"`
	ActionTakerFirstName string `json:"action_taker_first_name"`
	ActionTakerLastName  string `json:"action_taker_last_name"`
	ActionCapacity       string `json:"action_capacity"`

	IsBumpable           bool `json:"is_bumpable"`
	HasMissingLeaderInfo bool `json:"has_missing_leader_info"`
	HasExternalEmail     bool `json:"has_external_email"`

	RequestingUser Contact `json:"requesting_user"`
}

// PendingLevel returns the first approval not yet granted, or LevelNone.
func (d Document) PendingLevel() Level {
	switch {
	case !d.ProjectLeadApproved:
		return LevelProjectLead
	case !d.BusinessAreaLeadApproved:
		return LevelBusinessAreaLead
	case !d.DirectorateApproved:
		return LevelDirectorate
	default:
		return LevelNone
	}
}

// ActionTaker returns the contact for the pending approval.
func (d Document) ActionTaker() Contact {
	return Contact{
		ID:        d.ActionTakerID,
		Email:     d.ActionTakerEmail,
		FirstName: d.ActionTakerFirstName,
		LastName:  d.ActionTakerLastName,
	}
}

// ContactClass describes the pending approver's contact details.
type ContactClass int

const (
	// ContactNone applies when nothing is pending.
	ContactNone ContactClass = iota
	ContactMissing
	ContactExternal
	ContactNormal
)

func (c ContactClass) String() string {
	switch c {
	case ContactMissing:
		return "missing"
	case ContactExternal:
		return "external"
	case ContactNormal:
		return "normal"
	default:
		return "none"
	}
}

// ContactClass returns exactly one classification for the pending level.
func (d Document) ContactClass() ContactClass {
	switch {
	case d.PendingLevel() == LevelNone:
		return ContactNone
	case d.HasMissingLeaderInfo:
		return ContactMissing
	case d.HasExternalEmail:
		return ContactExternal
	default:
		return ContactNormal
	}
}
