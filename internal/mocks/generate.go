// Package mocks holds gomock implementations of the matcher's ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=oracle_client_mock.go -mock_names=Client=MockOracleClient job-matcher/internal/infrastructure/oracle Client
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=match_repository_mock.go job-matcher/internal/repository MatchRepository
