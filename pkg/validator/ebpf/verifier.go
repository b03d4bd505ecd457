package ebpf

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"
	"golang.org/x/sys/unix"

	"github.com/latedeployment/roea-sensor/pkg/utils"
)

// VerifyEbpf checks if the sensor's ebpf features can run on the current system.
func VerifyEbpf() error {
	if err := checkBTFSupport(); err != nil {
		return err
	}
	// Ring buffer maps need 5.8. Log a warning instead of failing because
	// some distros backport BPF features.
	if err := checkRingBufferSupport(); err != nil {
		logger.L().Warning("kernel version is older than 5.8, ring buffer support may be missing", helpers.Error(err))
	}
	return nil
}

// checkBTFSupport checks for BTF support, which CO-RE field relocation
// depends on.
func checkBTFSupport() error {
	if _, err := os.Stat("/sys/kernel/btf/vmlinux"); err == nil {
		return nil // vmlinux BTF file found
	}

	release, err := kernelRelease()
	if err == nil {
		btfPaths := []string{
			"/boot/vmlinux-" + release,
			"/lib/modules/" + release + "/vmlinux",
		}
		for _, path := range btfPaths {
			if _, err := os.Stat(path); err == nil {
				return nil // BTF file found
			}
		}
	}

	return errors.New(utils.ErrBTFSupport)
}

// checkRingBufferSupport checks that the kernel is recent enough for
// BPF_MAP_TYPE_RINGBUF.
func checkRingBufferSupport() error {
	version, err := kernelRelease()
	if err != nil {
		return err
	}
	return checkRingBufferVersion(version)
}

func checkRingBufferVersion(version string) error {
	major, minor, _, err := ParseKernelVersion(version)
	if err != nil {
		return err
	}
	if major > 5 || (major == 5 && minor >= 8) {
		return nil
	}
	return fmt.Errorf("%s: %s is older than 5.8", utils.ErrKernelVersion, version)
}

// ParseKernelVersion extracts major.minor.patch from a kernel release
// string such as "5.15.0-112-generic".
func ParseKernelVersion(version string) (uint, uint, uint, error) {
	// strip any suffix after the numeric triplet
	cut := func(s string) string {
		for i := 0; i < len(s); i++ {
			if s[i] != '.' && (s[i] < '0' || s[i] > '9') {
				return s[:i]
			}
		}
		return s
	}
	parts := strings.Split(cut(version), ".")
	if len(parts) < 2 {
		return 0, 0, 0, fmt.Errorf("unexpected kernel version format: %q", version)
	}
	numbers := make([]uint, 3)
	for i := 0; i < len(parts) && i < 3; i++ {
		n, err := strconv.ParseUint(parts[i], 10, 32)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("parsing kernel version %q: %w", version, err)
		}
		numbers[i] = uint(n)
	}
	return numbers[0], numbers[1], numbers[2], nil
}

// kernelRelease returns the running kernel's release string, e.g.
// "5.15.0-112-generic".
func kernelRelease() (string, error) {
	var uname unix.Utsname
	if err := unix.Uname(&uname); err != nil {
		return "", fmt.Errorf("calling uname: %w", err)
	}
	return unix.ByteSliceToString(uname.Release[:]), nil
}
