//go:build mage

// Package main provides build targets for the jobb project using Mage.
//
// Usage:
//
//	mage build          Compile jobb binary to bin/
//	mage test:all       Run all tests
//	mage test:unit      Run tests in short mode, skipping slow timer tests
//	mage test:race      Run all tests with the race detector
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install jobb to GOPATH/bin
//	mage serve          Build and run the HTTP API
//	mage image          Build the jobb container image
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "jobb"
	binaryDir  = "bin"
	cmdDir     = "./cmd/jobb"
	modulePath = "github.com/mesh-intelligence/jobb"
)

// version is stamped into the binary; override with JOBB_VERSION.
func version() string {
	if v := os.Getenv("JOBB_VERSION"); v != "" {
		return v
	}
	return "0.1.0"
}

func ldflags() string {
	return fmt.Sprintf("-X %s/internal/cli.Version=%s", modulePath, version())
}

// Build compiles the jobb binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-ldflags", ldflags(), "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Serve builds the binary and runs the HTTP API with the local config.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "serve")
}
