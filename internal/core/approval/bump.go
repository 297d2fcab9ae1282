package approval

import "errors"

var (
	// ErrNotBumpable is returned for documents that cannot be bumped.
	ErrNotBumpable = errors.New("document is not bumpable")
	// ErrNoActionTakerEmail is returned when the pending approver has no email.
	ErrNoActionTakerEmail = errors.New("document has no action taker email")
)

// BumpRequest asks the platform to email the pending approver of one document.
type BumpRequest struct {
	DocumentID     int     `json:"documentId"`
	DocumentKind   Kind    `json:"documentKind"`
	ProjectID      int     `json:"projectId"`
	ProjectTitle   string  `json:"projectTitle"`
	ActionTaker    Contact `json:"actionTaker"`
	ActionCapacity string  `json:"actionCapacity"`
	RequestingUser Contact `json:"requestingUser"`
}

// NewBumpRequest builds a request for d. The document's own requesting user
// is used when set, otherwise requester.
func NewBumpRequest(d Classified, requester Contact) (BumpRequest, error) {
	if !d.Bumpable {
		return BumpRequest{}, ErrNotBumpable
	}
	if d.ActionTakerEmail == "" {
		return BumpRequest{}, ErrNoActionTakerEmail
	}

	if !d.RequestingUser.IsZero() {
		requester = d.RequestingUser
	}

	return BumpRequest{
		DocumentID:     d.ID,
		DocumentKind:   d.Kind,
		ProjectID:      d.ProjectID,
		ProjectTitle:   d.PlainTitle,
		ActionTaker:    d.ActionTaker(),
		ActionCapacity: d.ActionCapacity,
		RequestingUser: requester,
	}, nil
}
