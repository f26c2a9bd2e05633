package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"copydeps.dev/pkg/copydeps/internal/domain"
	domainmocks "copydeps.dev/pkg/copydeps/internal/domain/mocks"
	m "copydeps.dev/pkg/copydeps/internal/model"
)

func TestWatchCmd_StartsWatcher(t *testing.T) {
	mockWatcher := domainmocks.NewMockWatcher(t)

	cmd := newRootCmd()
	cmd.AddCommand(newWatchCmd())

	originalWatcher := watcher
	watcher = mockWatcher
	defer func() { watcher = originalWatcher }()

	mockWatcher.On("Watch", mock.Anything, mock.MatchedBy(func(args domain.WatchArgs) bool {
		return args.Destination == m.Path("out") &&
			args.Source == m.Path("scenes") &&
			args.Debounce == 2*time.Second
	})).Return(nil)

	_, err := executeCommand(t, cmd, "watch", "out", "--source", "scenes", "--debounce", "2s")
	require.NoError(t, err)
}
