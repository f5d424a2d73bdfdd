//go:build mage

// Package main contains Mage build targets for citerius developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "citerius"
	cmdPkg  = "./cmd/citerius"
)

// Default target when mage runs without arguments.
var Default = Build

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-ldflags", ldflags(), "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Install installs the CLI into GOBIN.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), cmdPkg)
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs Vet and Test.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// ldflags stamps the version from the CITERIUS_VERSION environment variable.
func ldflags() string {
	version := os.Getenv("CITERIUS_VERSION")
	if version == "" {
		version = "dev"
	}
	return "-X main.Version=" + version
}
