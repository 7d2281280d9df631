// Package platform identifies the host operating system family and the
// identifiers the toolchain artifact service uses for it.
package platform

import "runtime"

// Family is the host OS family.
type Family string

const (
	Linux       Family = "linux"
	MacOS       Family = "macos"
	Windows     Family = "windows"
	Unsupported Family = "unsupported"
)

// Descriptor is derived once per invocation and never mutated.
type Descriptor struct {
	Family Family
	// JobTag names the platform for toolchain artifact jobs; empty when
	// no prebuilt toolchain exists for this host.
	JobTag string
	// BinSuffix is appended to executable names.
	BinSuffix string
}

// Detect inspects the running host.
func Detect() Descriptor {
	return FromGOOS(runtime.GOOS, runtime.GOARCH)
}

// FromGOOS builds a descriptor for an explicit GOOS/GOARCH pair.
func FromGOOS(goos, goarch string) Descriptor {
	switch goos {
	case "linux":
		d := Descriptor{Family: Linux}
		if goarch == "amd64" {
			d.JobTag = "linux64"
		}
		return d
	case "darwin":
		return Descriptor{Family: MacOS, JobTag: "macosx64"}
	case "windows":
		d := Descriptor{Family: Windows, BinSuffix: ".exe"}
		switch goarch {
		case "amd64":
			d.JobTag = "win64"
		case "386":
			d.JobTag = "win32"
		}
		return d
	}
	return Descriptor{Family: Unsupported}
}

// Supported reports whether a prebuilt toolchain can be fetched.
func (d Descriptor) Supported() bool {
	return d.JobTag != ""
}

// Opener returns the command that opens a file with its default application.
func (d Descriptor) Opener() []string {
	switch d.Family {
	case Windows:
		return []string{"explorer.exe"}
	case MacOS:
		return []string{"open"}
	case Linux:
		return []string{"xdg-open"}
	}
	return nil
}

func (f Family) String() string { return string(f) }
