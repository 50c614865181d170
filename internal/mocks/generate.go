// Package mocks holds gomock mocks for the usecase ports.
//
// Regenerate after changing an interface:
//
//	go generate ./internal/mocks
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=pipeline_mock.go meraki-api/internal/usecase Pipeline
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=persister_mock.go meraki-api/internal/usecase Persister
