// Package testutil provides mocks and helpers shared by the package tests.
package testutil
