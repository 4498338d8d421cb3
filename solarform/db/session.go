package db

import (
	"time"

	"github.com/google/uuid"
)

// Session holds the wizard state of one browser session.
type Session struct {
	// Session ID (stored in the cookie)
	ID string `xorm:"pk"`
	// Form variant the session was started with
	Variant string
	// Current step (1-5)
	Step int
	// Field values and error messages, keyed by field name
	Values map[string]string `xorm:"text"`
	Errors map[string]string `xorm:"text"`
	// Consent identifiers in the order they were given
	Consent []string `xorm:"text"`
	// A relay POST is in flight
	Submitting bool
	// Terminal state; the draft can no longer be edited
	Submitted bool
	// Message of the last failed submission
	Failure string
	// Kept for the thank-you page once the draft is dropped
	FirstName string
	// Delivery of the pending or last submission (0 if none)
	DeliveryID int64
	// Time when the session was created
	Created time.Time `xorm:"created"`
	// Time of the last change (for expiration)
	Updated time.Time `xorm:"updated"`
}

// NewSession creates an empty session for the given form variant with a new
// unique ID.
func NewSession(variant string) *Session {
	sess := new(Session)
	sess.ID = uuid.New().String()
	sess.Variant = variant
	sess.Step = 1
	sess.Values = make(map[string]string)
	sess.Errors = make(map[string]string)
	sess.Consent = []string{}
	return sess
}

// InsertSession inserts a new Session into the database.
func (conn *Connection) InsertSession(sess *Session) error {
	_, err := conn.engine.Insert(sess)
	return err
}

// GetSession retrieves a session from the database given its ID.
func (conn *Connection) GetSession(id string) (*Session, error) {
	sess := new(Session)
	if has, err := conn.engine.ID(id).Get(sess); err != nil {
		return nil, err
	} else if !has {
		return nil, ErrNotFound
	}
	return sess, nil
}

// UpdateSession writes every column of an existing session.
func (conn *Connection) UpdateSession(sess *Session) error {
	n, err := conn.engine.ID(sess.ID).AllCols().Update(sess)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSession removes a session. Deleting a missing session is not an
// error.
func (conn *Connection) DeleteSession(id string) error {
	_, err := conn.engine.ID(id).Delete(new(Session))
	return err
}

// PurgeSessions deletes all sessions not modified since cutoff and returns
// how many were removed.
func (conn *Connection) PurgeSessions(cutoff time.Time) (int64, error) {
	sessions := make([]Session, 0)
	if err := conn.engine.Cols("id", "updated").Find(&sessions); err != nil {
		return 0, err
	}
	var n int64
	for _, s := range sessions {
		if !s.Updated.Before(cutoff) {
			continue
		}
		deleted, err := conn.engine.ID(s.ID).Delete(new(Session))
		if err != nil {
			return n, err
		}
		n += deleted
	}
	return n, nil
}
