//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed with `go install` and are not tracked in go.mod.
package tools

// Development tools:
//
// Air - live reload for the console while editing web/
//   Install: go install github.com/air-verse/air@v1.63.0
//   Run:     DEV=true SERVICES=console,dev-backend air -c .air.toml
//
// mockgen - regenerates internal/mocks/ports_mock.go
//   Install: go install go.uber.org/mock/mockgen@v0.6.0
//   Run:     go generate ./internal/mocks
