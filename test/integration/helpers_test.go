package integration

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gexec"
)

// invalidPID is above any pid_max the kernel accepts.
const invalidPID = 999999999

// RunNodeprobe starts the binary in dir and returns the session.
func RunNodeprobe(dir string, stdin io.Reader, args ...string) *gexec.Session {
	cmd := exec.Command(nodeprobePath, args...)
	cmd.Dir = dir
	cmd.Stdin = stdin
	cmd.Env = append(os.Environ(), "LOG_LEVEL=debug")

	session, err := gexec.Start(cmd, GinkgoWriter, GinkgoWriter)
	Expect(err).NotTo(HaveOccurred())
	return session
}

// StartTarget starts a long-lived process to be monitored and registers its
// termination via DeferCleanup.
func StartTarget() int {
	cmd := exec.Command("sleep", "300")
	Expect(cmd.Start()).To(Succeed())
	DeferCleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})
	return cmd.Process.Pid
}

// CaptureDirs returns the monitor capture directories under root.
func CaptureDirs(root string) []string {
	dirs, err := filepath.Glob(filepath.Join(root, "monitor_*"))
	Expect(err).NotTo(HaveOccurred())
	return dirs
}

// WriteExecutable writes an executable shell script.
func WriteExecutable(path, script string) {
	Expect(os.WriteFile(path, []byte(script), 0o755)).To(Succeed())
}

// ReadFile returns the content of path as a string.
func ReadFile(path string) string {
	b, err := os.ReadFile(path)
	Expect(err).NotTo(HaveOccurred())
	return string(b)
}
