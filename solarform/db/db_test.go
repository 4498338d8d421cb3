package db

import (
	"errors"
	"os"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *Connection {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "testdb")
	if err != nil {
		t.Fatalf("Failed to create temporary database file: %s", err.Error())
	}
	tmpfile.Close()
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	db, err := New(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to initialise database connection to file %q: %s", tmpfile.Name(), err.Error())
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInitEmpty(t *testing.T) {
	db := newTestDB(t)

	// db should be empty
	deliveries, err := db.AllDeliveries()
	if err != nil {
		t.Fatalf("Failed to retrieve all deliveries from empty db: %s", err.Error())
	}
	if deliveries == nil {
		t.Fatal("Delivery listing returned nil instead of empty slice")
	}
	if len(deliveries) != 0 {
		t.Fatalf("Delivery listing returned %d entries; should be 0", len(deliveries))
	}

	sessions := make([]Session, 0)
	if err := db.engine.Find(&sessions); err != nil {
		t.Fatalf("Failed to retrieve all sessions from empty db: %s", err.Error())
	}
	if len(sessions) != 0 {
		t.Fatalf("Session listing returned %d entries; should be 0", len(sessions))
	}
}

func TestSessionStore(t *testing.T) {
	db := newTestDB(t)

	sess := NewSession("providers")
	if err := db.InsertSession(sess); err != nil {
		t.Fatalf("Failed inserting new session: %s", err.Error())
	}
	if db.InsertSession(sess) == nil {
		t.Fatal("Succeeded inserting duplicate session")
	}

	dupe := NewSession("general")
	dupe.ID = sess.ID
	if db.InsertSession(dupe) == nil {
		t.Fatal("Succeeded inserting session with conflicting ID")
	}

	s, err := db.GetSession(sess.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve test session from db: %s", err.Error())
	}
	if s.ID != sess.ID || s.Variant != "providers" || s.Step != 1 {
		t.Fatalf("Unexpected session returned from db: %+v (not %+v)", s, sess)
	}
	if s.Created.IsZero() || s.Updated.IsZero() {
		t.Fatalf("Session timestamps not set: %+v", s)
	}

	s.Step = 4
	s.Values["name"] = "Jane Doe"
	s.Values["zip"] = "84101"
	s.Errors["consentedProviders"] = "Please select at least one provider you agree to be contacted by"
	s.Consent = []string{"vivint", "tesla"}
	s.Submitting = true
	if err := db.UpdateSession(s); err != nil {
		t.Fatalf("Failed to update session: %s", err.Error())
	}

	s2, err := db.GetSession(sess.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve updated session: %s", err.Error())
	}
	if s2.Step != 4 || !s2.Submitting {
		t.Fatalf("Session update lost scalar fields: %+v", s2)
	}
	if s2.Values["name"] != "Jane Doe" || s2.Values["zip"] != "84101" || len(s2.Values) != 2 {
		t.Fatalf("Session values mismatch: %+v", s2.Values)
	}
	if len(s2.Errors) != 1 {
		t.Fatalf("Session errors mismatch: %+v", s2.Errors)
	}
	if len(s2.Consent) != 2 || s2.Consent[0] != "vivint" || s2.Consent[1] != "tesla" {
		t.Fatalf("Session consent mismatch: %v", s2.Consent)
	}

	// clearing flags must be written too
	s2.Submitting = false
	s2.Errors = map[string]string{}
	if err := db.UpdateSession(s2); err != nil {
		t.Fatalf("Failed to update session: %s", err.Error())
	}
	if s3, err := db.GetSession(sess.ID); err != nil {
		t.Fatalf("Failed to retrieve updated session: %s", err.Error())
	} else if s3.Submitting || len(s3.Errors) != 0 {
		t.Fatalf("Zero values were not stored: %+v", s3)
	}

	if err := db.UpdateSession(NewSession("general")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Updating missing session returned %v", err)
	}

	if err := db.DeleteSession(sess.ID); err != nil {
		t.Fatalf("Failed to delete session: %s", err.Error())
	}
	if _, err := db.GetSession(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Deleted session still retrievable: %v", err)
	}
	if err := db.DeleteSession(sess.ID); err != nil {
		t.Fatalf("Deleting missing session failed: %s", err.Error())
	}
}

func TestPurgeSessions(t *testing.T) {
	db := newTestDB(t)

	old := NewSession("general")
	fresh := NewSession("general")
	for _, s := range []*Session{old, fresh} {
		if err := db.InsertSession(s); err != nil {
			t.Fatalf("Failed inserting session: %s", err.Error())
		}
	}
	aged := &Session{Updated: time.Now().Add(-48 * time.Hour)}
	if _, err := db.engine.ID(old.ID).NoAutoTime().Cols("updated").Update(aged); err != nil {
		t.Fatalf("Failed to age session: %s", err.Error())
	}
	cutoff := time.Now().Add(-24 * time.Hour)

	n, err := db.PurgeSessions(cutoff)
	if err != nil {
		t.Fatalf("Failed to purge sessions: %s", err.Error())
	}
	if n != 1 {
		t.Fatalf("Purged %d sessions; expected 1", n)
	}
	if _, err := db.GetSession(old.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expired session still present: %v", err)
	}
	if _, err := db.GetSession(fresh.ID); err != nil {
		t.Fatalf("Fresh session was purged: %s", err.Error())
	}
}

func TestDeliveryStore(t *testing.T) {
	db := newTestDB(t)

	empty := &Delivery{}
	if err := db.InsertDelivery(empty); err != nil {
		t.Fatalf("Failed inserting empty delivery: %s", err.Error())
	}
	if empty.ID != 1 {
		t.Fatalf("Delivery ID autoincrement failed: %d", empty.ID)
	}
	if db.InsertDelivery(empty) == nil {
		t.Fatal("Succeeded while entering duplicate delivery")
	}

	d := &Delivery{SessionID: "sess-1", Variant: "general", Status: StatusQueued, SubmitTime: time.Now()}
	if err := db.InsertDelivery(d); err != nil {
		t.Fatalf("Failed inserting new delivery: %s", err.Error())
	}
	if d.IsFinished() {
		t.Fatalf("New (unfinished) delivery appears finished: %+v", d)
	}

	d.EndTime = d.SubmitTime.Add(2 * time.Second)
	d.Status = StatusFailed
	d.Error = "relay: status 500: boom"
	if !d.IsFinished() {
		t.Fatalf("Finished delivery appears unfinished: %+v", d)
	}
	if d.Duration() != 2*time.Second {
		t.Fatalf("Unexpected duration: %s", d.Duration())
	}
	if err := db.UpdateDelivery(d); err != nil {
		t.Fatalf("Failed to update delivery (finished): %s", err.Error())
	}

	// the update must only touch its own row
	if e, err := db.GetDelivery(empty.ID); err != nil {
		t.Fatalf("Failed to retrieve delivery: %s", err.Error())
	} else if e.Status != "" || e.Error != "" {
		t.Fatalf("Unrelated delivery was modified: %+v", e)
	}

	if dr, err := db.GetDelivery(d.ID); err != nil {
		t.Fatalf("Failed to retrieve finished delivery from db: %s", err.Error())
	} else if !dr.IsFinished() || dr.Status != StatusFailed || dr.Error != d.Error {
		t.Fatalf("Finished delivery, loaded from db, mismatch: %+v", dr)
	}

	if dr, err := db.GetDelivery(1000); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Succeeded retrieving delivery using invalid ID: %+v", dr)
	}
	if err := db.UpdateDelivery(&Delivery{ID: 1000}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Updating missing delivery returned %v", err)
	}
}

func TestSessionDeliveries(t *testing.T) {
	db := newTestDB(t)

	ntest := 20
	for idx := 0; idx < ntest; idx++ {
		db.InsertDelivery(&Delivery{SessionID: "mine", SubmitTime: time.Now(), EndTime: time.Now(), Status: StatusDelivered})
	}
	for idx := 0; idx < 50; idx++ {
		db.InsertDelivery(&Delivery{SessionID: "other", SubmitTime: time.Now(), Status: StatusQueued})
	}

	mine, err := db.SessionDeliveries("mine")
	if err != nil {
		t.Fatalf("Failed to get deliveries for session: %s", err.Error())
	}
	if len(mine) != ntest {
		t.Fatalf("Unexpected delivery count: %d (expected %d)", len(mine), ntest)
	}
	for idx := range mine {
		if mine[idx].Status != StatusDelivered {
			t.Fatalf("Unexpected status found for delivery: %s", mine[idx].Status)
		}
		if idx > 0 && mine[idx].ID > mine[idx-1].ID {
			t.Fatalf("Deliveries not ordered newest first: %d after %d", mine[idx].ID, mine[idx-1].ID)
		}
	}

	all, err := db.AllDeliveries()
	if err != nil {
		t.Fatalf("Failed to retrieve all deliveries: %s", err.Error())
	}
	if len(all) != ntest+50 {
		t.Fatalf("Unexpected delivery count: %d (expected %d)", len(all), ntest+50)
	}
	if all[0].SessionID != "other" {
		t.Fatalf("Newest delivery should come first: %+v", all[0])
	}
}
