package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"ymreport/pkg/contracts/domain"
)

// Processor defines the interface for record transformation
type Processor interface {
	// Transform derives the report columns of a raw malfunction table
	Transform(ctx context.Context, in *domain.Table) (*domain.Table, domain.ReportMetadata, error)
}

// ProcessingOptions configures a Transformer
type ProcessingOptions struct {
	// Mode selects the layout; defaults to basic.
	Mode domain.ReportMode

	// Location is used to read dates stored without a zone. Defaults to UTC.
	Location *time.Location

	// Now supplies the processing date for the week filter. Defaults to time.Now.
	Now func() time.Time

	// Codes resolves functional location codes. Defaults to DefaultLocationCodes.
	Codes LocationCodeTable

	// ProblemRules and TypeRules override the built-in rule tables.
	ProblemRules *Classifier
	TypeRules    *Classifier

	Logger *slog.Logger
}
