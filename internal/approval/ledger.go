package approval

import (
	"strings"

	approvalerrors "go-hris-workflow/internal/approval/errors"
	"go-hris-workflow/internal/domain"
)

// Ledger is the append-only approval history of a request.
type Ledger []domain.Comment

// Append returns a new ledger with entry at the end. The receiver's backing
// array is never written to.
func (l Ledger) Append(entry domain.Comment) ([]domain.Comment, error) {
	if entry.Action == domain.ActionReject && strings.TrimSpace(entry.Comment) == "" {
		return nil, approvalerrors.ErrCommentRequired
	}
	out := make([]domain.Comment, len(l), len(l)+1)
	copy(out, l)
	return append(out, entry), nil
}
