//go:build mage

package main

import (
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Test groups the test targets.
type Test mg.Namespace

// All runs every test in the module.
func (Test) All() error {
	return sh.RunV(binGo, "test", "./...")
}

// Unit runs the tests in short mode.
func (Test) Unit() error {
	return sh.RunV(binGo, "test", "-short", "./...")
}

// Race runs every test with the race detector.
func (Test) Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Postgres runs the postgres registry tests against JOBB_TEST_POSTGRES_DSN.
func (Test) Postgres() error {
	if os.Getenv("JOBB_TEST_POSTGRES_DSN") == "" {
		return mg.Fatal(1, "JOBB_TEST_POSTGRES_DSN is not set")
	}
	return sh.RunV(binGo, "test", "-count=1", "./internal/postgres/...")
}
