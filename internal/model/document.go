package model

import "time"

// Document is one parsed item from the mail corpus. Date is the zero value
// when the header was missing or unparseable; such documents stay in scope
// for keyword filtering but never match a per-gap date window.
type Document struct {
	ID      string    `json:"id"` // filename relative to the corpus directory
	Subject string    `json:"subject"`
	Sender  string    `json:"sender"`
	Date    time.Time `json:"date,omitempty"`
	Body    string    `json:"body"`
}

// HasDate reports whether the document carried a parseable date header.
func (d Document) HasDate() bool {
	return !d.Date.IsZero()
}
