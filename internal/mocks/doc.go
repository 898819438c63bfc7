// Package mocks provides centralized mock implementations for testing.
//
// Instead of defining inline mocks in individual test files, these
// standardized implementations are shared across test packages. Each mock
// exposes one function field per interface method; unset fields fall back
// to a small in-memory default where that makes tests shorter.
package mocks
