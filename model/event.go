package model

import "time"

// Event is a scheduled event. The store assigns ID; the record is not
// modified after creation.
type Event struct {
	ID       int       `json:"id"`
	Name     string    `json:"name" validate:"notblank,max=100"`
	Date     time.Time `json:"date" validate:"required,notpast"`
	Location string    `json:"location" validate:"notblank,max=200"`
}

// GetID returns the store-assigned identifier.
func (e Event) GetID() int { return e.ID }
