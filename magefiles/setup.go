//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Camera generates the per-detector camera files with the built CLI.
func Camera() error {
	mg.Deps(Build)
	return runCLI("camera", "generate")
}

// Register syncs the instrument dimensions into the local registry.
func Register() error {
	mg.Deps(Build, Init)
	return runCLI("instrument", "register")
}

func runCLI(args ...string) error {
	bin := filepath.Join(binDir, binName)
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", binName, args, err)
	}
	return nil
}
