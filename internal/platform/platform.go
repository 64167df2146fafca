// Package platform provides the OS integration points the session machine
// depends on. The real shield, activity monitor, and notification hooks live
// in the host shell; these logging implementations stand in everywhere else
// and keep the core testable without an OS surface.
package platform

import (
	"context"
	"time"

	"github.com/astralis-app/astralis/internal/domain"
	"github.com/astralis-app/astralis/internal/logger"
)

// LogShield records shield transitions without touching the OS.
type LogShield struct{}

func (LogShield) Apply(ctx context.Context, selection domain.FocusSelection) error {
	logger.FromContext(ctx).Info("Shield applied",
		"apps", len(selection.AppIDs),
		"categories", len(selection.CategoryIDs))
	return nil
}

func (LogShield) Remove(ctx context.Context) error {
	logger.FromContext(ctx).Info("Shield removed")
	return nil
}

// LogMonitor records monitoring transitions without touching the OS.
type LogMonitor struct{}

func (LogMonitor) Start(ctx context.Context, selection domain.FocusSelection) error {
	logger.FromContext(ctx).Info("Activity monitoring started",
		"apps", len(selection.AppIDs),
		"categories", len(selection.CategoryIDs))
	return nil
}

func (LogMonitor) Stop(ctx context.Context) error {
	logger.FromContext(ctx).Info("Activity monitoring stopped")
	return nil
}

// LogNotifier records notification scheduling without touching the OS.
type LogNotifier struct{}

func (LogNotifier) ScheduleCompletion(ctx context.Context, at time.Time) error {
	logger.FromContext(ctx).Info("Completion notification scheduled", "at", at)
	return nil
}

func (LogNotifier) Cancel(ctx context.Context) error {
	logger.FromContext(ctx).Info("Completion notification cancelled")
	return nil
}
