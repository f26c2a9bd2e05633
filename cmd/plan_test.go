package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"copydeps.dev/pkg/copydeps/internal/domain"
	domainmocks "copydeps.dev/pkg/copydeps/internal/domain/mocks"
	m "copydeps.dev/pkg/copydeps/internal/model"
)

func TestPlanCmd_PlansCopy(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newPlanCmd())

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("Plan", mock.Anything, mock.MatchedBy(func(args domain.CopyArgs) bool {
		return args.Destination == m.Path("out") && args.Layout == domain.LayoutAbsolute
	})).Return(nil)

	_, err := executeCommand(t, cmd, "plan", "out", "--layout", "absolute")
	require.NoError(t, err)
}

func TestPlanCmd_PropagatesError(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newPlanCmd())

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("Plan", mock.Anything, mock.Anything).Return(errors.New("scan failed"))

	_, err := executeCommand(t, cmd, "plan", "out")
	require.EqualError(t, err, "scan failed")
}
