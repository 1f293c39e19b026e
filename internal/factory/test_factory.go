package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/skillduel/skillduel/internal/dependencies/mocks"
	"github.com/skillduel/skillduel/internal/services/auth"
	"github.com/skillduel/skillduel/internal/services/ledger"
	"github.com/skillduel/skillduel/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom

	// RemoteWallets is the store standing in for the remote balance service
	RemoteWallets *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	remote := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	app := newWithDependencies(store, remote, mockClock, mockRandom, auth.DefaultConfig(), ledger.DefaultConfig(), logger)

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MockRandom:    mockRandom,
		RemoteWallets: remote,
	}
}
