//go:build !gcloud

package logging

import (
	"context"
	"log/slog"
)

// gcpTraceAttrs adds nothing outside Google Cloud; trace correlation
// attributes only exist when running on GCP.
func gcpTraceAttrs(_ context.Context, _ string) []slog.Attr {
	return nil
}
