// Package mocks provides generated mock implementations of the session ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the interfaces in
// internal/ports. The hand-written doubles in internal/mocks/auth cover the common cases; reach for
// these when a test needs call-order or argument expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockSessionStore(ctrl)
//	store.EXPECT().Clear(gomock.Any()).Return(nil)
package mocks

// Generate mocks for SessionStore, SessionStores and Navigator from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ports_mock.go github.com/notrick-no/iReasearch/internal/ports SessionStore,SessionStores,Navigator
