package contracts

import (
	"context"
)

// Export kinds
const (
	ExportKindOdds       = "odds"
	ExportKindComparison = "comparison"
)

// ExportSink receives result sets for offline analysis
// Exports are best-effort; callers log failures and carry on
type ExportSink interface {
	Export(ctx context.Context, kind, subject string, payload any) error
}
