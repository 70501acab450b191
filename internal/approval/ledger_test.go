package approval_test

import (
	"testing"

	"go-hris-workflow/internal/approval"
	approvalerrors "go-hris-workflow/internal/approval/errors"
	"go-hris-workflow/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_Append(t *testing.T) {
	t.Run("preserves insertion order", func(t *testing.T) {
		first := domain.Comment{ApproverRole: domain.ApproverTeamLead, Action: domain.ActionApprove}
		second := domain.Comment{ApproverRole: domain.ApproverHR, Action: domain.ActionReject, Comment: "no cover"}

		l1, err := approval.Ledger(nil).Append(first)
		require.NoError(t, err)
		l2, err := approval.Ledger(l1).Append(second)
		require.NoError(t, err)

		assert.Len(t, l1, 1)
		assert.Equal(t, []domain.Comment{first, second}, l2)
	})

	t.Run("does not share backing array", func(t *testing.T) {
		base := make([]domain.Comment, 1, 8)
		base[0] = domain.Comment{ApproverRole: domain.ApproverTeamLead, Action: domain.ActionApprove}

		a, err := approval.Ledger(base).Append(domain.Comment{ApproverRole: domain.ApproverHR, Action: domain.ActionApprove})
		require.NoError(t, err)
		b, err := approval.Ledger(base).Append(domain.Comment{ApproverRole: domain.ApproverHR, Action: domain.ActionReject, Comment: "x"})
		require.NoError(t, err)

		assert.Equal(t, domain.ActionApprove, a[1].Action)
		assert.Equal(t, domain.ActionReject, b[1].Action)
	})

	t.Run("negative reject without comment", func(t *testing.T) {
		_, err := approval.Ledger(nil).Append(domain.Comment{ApproverRole: domain.ApproverHR, Action: domain.ActionReject})
		assert.ErrorIs(t, err, approvalerrors.ErrCommentRequired)
	})
}
