package storage

import "eventpulse/models"

// ReportWriter is the interface any report sink must satisfy.
type ReportWriter interface {
	Write(report *models.Report) error
}
