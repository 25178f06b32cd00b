//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Container image constants.
const (
	dockerImageName = "jobb"
	dockerfileDir   = "magefiles"
)

// containerRuntime returns "podman" or "docker" if a working runtime
// is available, or "" if neither is usable. It checks both that the
// binary exists on PATH and that it can connect to its daemon/machine.
func containerRuntime() string {
	for _, name := range []string{"podman", "docker"} {
		if _, err := exec.LookPath(name); err != nil {
			continue
		}
		if exec.Command(name, "info").Run() != nil {
			fmt.Fprintf(os.Stderr, "WARNING: %s found on PATH but not usable (is the daemon/machine running?)\n", name)
			continue
		}
		return name
	}
	return ""
}

// imageRef returns the full image reference (name:tag).
func imageRef() string {
	return dockerImageName + ":" + version()
}

// Image builds the jobb container image from magefiles/Dockerfile.
// The build context is the repo root.
func Image() error {
	rt := containerRuntime()
	if rt == "" {
		return mg.Fatal(1, "no usable container runtime (podman or docker)")
	}
	fmt.Fprintf(os.Stderr, "Building %s with %s...\n", imageRef(), rt)
	cmd := exec.Command(rt, "build",
		"-t", imageRef(),
		"--build-arg", "VERSION="+version(),
		"-f", filepath.Join(dockerfileDir, "Dockerfile"),
		".")
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
