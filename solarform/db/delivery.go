package db

import (
	"time"
)

// Delivery statuses.
const (
	StatusQueued    = "queued"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// Delivery records one attempt to relay a submission. Field contents are
// never stored, only the outcome.
type Delivery struct {
	// Delivery ID (auto)
	ID int64 `xorm:"pk autoincr"`
	// Session that submitted the form
	SessionID string `xorm:"index"`
	// Form variant
	Variant string
	// queued, delivered or failed
	Status string
	// Message returned by the relay on success
	Message string
	// Error returned by the relay or the transport
	Error string
	// Time when the delivery was queued
	SubmitTime time.Time
	// Time when the delivery finished (0 if ongoing)
	EndTime time.Time
}

// IsFinished returns true if the Delivery has finished (has an EndTime).
func (d *Delivery) IsFinished() bool {
	return !d.EndTime.IsZero()
}

// Duration is the time between queueing and completion.
func (d *Delivery) Duration() time.Duration {
	if !d.IsFinished() {
		return 0
	}
	return d.EndTime.Sub(d.SubmitTime)
}

// InsertDelivery inserts a new Delivery into the database. Upon successful
// return, the Delivery has a new unique ID.
func (conn *Connection) InsertDelivery(d *Delivery) error {
	_, err := conn.engine.Insert(d) // ID is assigned on insertion
	return err
}

// UpdateDelivery updates an existing Delivery entry in the database.
func (conn *Connection) UpdateDelivery(d *Delivery) error {
	n, err := conn.engine.ID(d.ID).AllCols().Update(d)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetDelivery retrieves a Delivery from the database given its ID.
func (conn *Connection) GetDelivery(id int64) (*Delivery, error) {
	d := new(Delivery)
	if has, err := conn.engine.ID(id).Get(d); err != nil {
		return nil, err
	} else if !has {
		return nil, ErrNotFound
	}
	return d, nil
}

// SessionDeliveries retrieves all the Deliveries of a given session, newest
// first.
func (conn *Connection) SessionDeliveries(sessionID string) ([]Delivery, error) {
	deliveries := make([]Delivery, 0)
	if err := conn.engine.Where("session_id = ?", sessionID).Desc("id").Find(&deliveries); err != nil {
		return nil, err
	}
	return deliveries, nil
}

// AllDeliveries returns all Delivery entries in the database, newest first.
func (conn *Connection) AllDeliveries() ([]Delivery, error) {
	deliveries := make([]Delivery, 0)
	if err := conn.engine.Desc("id").Find(&deliveries); err != nil {
		return nil, err
	}
	return deliveries, nil
}
