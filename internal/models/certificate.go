package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Certificate is issued when a user completes a course
type Certificate struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	CourseID  string          `json:"courseId"`
	IssueDate time.Time       `json:"issueDate"`
	Data      CertificateData `json:"certificateData"`
}

// CertificateData is a snapshot of names at issuance time
type CertificateData struct {
	UserName    string    `json:"userName"`
	CourseTitle string    `json:"courseTitle"`
	Instructor  string    `json:"instructor"`
	IssuedAt    time.Time `json:"issuedAt"`
}

// Value implements driver.Valuer
func (d CertificateData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner
func (d *CertificateData) Scan(src any) error {
	return scanJSON(src, d)
}
