package simd

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

func init() {
	detectFeatures(runtime.GOARCH)
	initCapabilities()
}

// detectFeatures records the CPU features relevant to kernel selection.
// cpu.X86 and cpu.ARM64 are zero-valued on other architectures.
func detectFeatures(goarch string) {
	switch goarch {
	case "amd64":
		hasAVX2 = cpu.X86.HasAVX2 && cpu.X86.HasFMA
		hasAVX512F = cpu.X86.HasAVX512F
		hasAVX512BW = cpu.X86.HasAVX512BW
	case "arm64":
		hasASIMD = cpu.ARM64.HasASIMD
		hasSVE2 = cpu.ARM64.HasSVE2
	}
}
