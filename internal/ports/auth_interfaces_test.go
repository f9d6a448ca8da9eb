package ports_test

import (
	"testing"

	"github.com/notrick-no/iReasearch/internal/adapters/boltstore"
	"github.com/notrick-no/iReasearch/internal/adapters/memory"
	redisstore "github.com/notrick-no/iReasearch/internal/adapters/redis"
	"github.com/notrick-no/iReasearch/internal/mocks"
	authmocks "github.com/notrick-no/iReasearch/internal/mocks/auth"
	"github.com/notrick-no/iReasearch/internal/ports"
)

// This test only verifies at compile time that adapters and doubles satisfy the ports.
func TestImplementationsSatisfyPorts(t *testing.T) {
	t.Helper()

	var _ ports.SessionStores = (*memory.SessionStores)(nil)
	var _ ports.SessionStores = (*redisstore.SessionStores)(nil)
	var _ ports.SessionStores = (*boltstore.DB)(nil)

	var _ ports.SessionStore = (*authmocks.MemorySessionStore)(nil)
	var _ ports.SessionStores = (*authmocks.MemorySessionStores)(nil)
	var _ ports.Navigator = (*authmocks.RecordingNavigator)(nil)

	var _ ports.SessionStore = (*mocks.MockSessionStore)(nil)
	var _ ports.SessionStores = (*mocks.MockSessionStores)(nil)
	var _ ports.Navigator = (*mocks.MockNavigator)(nil)
}
