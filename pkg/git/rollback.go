package git

import (
	"context"
	"fmt"
)

// RollbackReport tracks the state of each rollback step.
type RollbackReport struct {
	Discarded      bool
	SwitchedBranch bool
	DeletedBranch  bool

	DiscardError error
	SwitchError  error
	DeleteError  error

	BaseBranch string
	WorkBranch string
}

// Success returns true if the working tree was restored and the base branch
// checked out again.
func (r *RollbackReport) Success() bool {
	return r.Discarded && r.SwitchedBranch
}

// FirstError returns the first error encountered in execution order:
// Discard -> Switch -> Delete.
func (r *RollbackReport) FirstError() error {
	if r.DiscardError != nil {
		return r.DiscardError
	}
	if r.SwitchError != nil {
		return r.SwitchError
	}
	return r.DeleteError
}

// Rollback undoes an interrupted release step: it discards working tree
// changes, switches back to baseBranch and deletes workBranch.
//
// Discard and switch stop the rollback on failure. Deleting the work branch
// is best-effort and skipped when workBranch is empty or equals baseBranch.
func (r *Repository) Rollback(ctx context.Context, baseBranch, workBranch string) *RollbackReport {
	report := &RollbackReport{
		BaseBranch: baseBranch,
		WorkBranch: workBranch,
	}

	if err := r.DiscardChanges(ctx); err != nil {
		report.DiscardError = fmt.Errorf(
			"failed to discard changes: %w\n\n"+
				"Restore the working tree manually with: git restore .",
			err)
		return report
	}
	report.Discarded = true

	if err := r.SwitchBranch(ctx, baseBranch); err != nil {
		report.SwitchError = fmt.Errorf(
			"failed to switch back to %s: %w\n\n"+
				"Run: git switch %s",
			baseBranch, err, baseBranch)
		return report
	}
	report.SwitchedBranch = true

	if workBranch == "" || workBranch == baseBranch {
		return report
	}

	if err := r.DeleteBranch(ctx, workBranch); err != nil {
		report.DeleteError = fmt.Errorf(
			"failed to delete branch: %w\n\n"+
				"You can manually delete it with: git branch -D %s",
			err, workBranch)
		r.log.Warn("Branch deletion failed, but rollback is complete")
	} else {
		report.DeletedBranch = true
	}

	return report
}
