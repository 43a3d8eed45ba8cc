package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
)

var _ = Describe("monitor", func() {
	var workDir string

	BeforeEach(func() {
		workDir = GinkgoT().TempDir()
	})

	DescribeTable("rejects invalid usage without creating anything",
		func(args ...string) {
			session := RunNodeprobe(workDir, nil, append([]string{"monitor"}, args...)...)
			Eventually(session).Should(gexec.Exit(1))
			Expect(session.Err).To(gbytes.Say("invalid usage"))
			Expect(CaptureDirs(workDir)).To(BeEmpty())
		},
		Entry("no arguments"),
		Entry("duration only", "5"),
		Entry("zero duration", "0", "1"),
		Entry("non numeric duration", "ten", "1"),
		Entry("zero pid", "5", "0"),
		Entry("non numeric pid", "5", "init"),
	)

	It("monitors a live process and skips an invalid one", func() {
		pid := StartTarget()

		session := RunNodeprobe(workDir, nil,
			"monitor", "--sampler", "proc", "2", strconv.Itoa(pid), strconv.Itoa(invalidPID))
		Eventually(session).Should(gexec.Exit(0))
		Expect(session.Err).To(gbytes.Say("process not found"))

		dirs := CaptureDirs(workDir)
		Expect(dirs).To(HaveLen(1))

		entries, err := os.ReadDir(dirs[0])
		Expect(err).NotTo(HaveOccurred())
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		Expect(names).To(ConsistOf("raw_output.log", "summary_report.txt"))

		report := ReadFile(filepath.Join(dirs[0], "summary_report.txt"))
		Expect(report).To(HavePrefix("Process Monitoring Summary\n"))
		Expect(report).To(ContainSubstring("Duration: 2 seconds\n"))
		Expect(report).To(ContainSubstring(fmt.Sprintf("Processes: %d %d\n", pid, invalidPID)))
		Expect(report).To(ContainSubstring(fmt.Sprintf("PID %d\n", pid)))
		Expect(report).To(ContainSubstring("CPU Usage - Average: "))
		Expect(report).To(ContainSubstring("Memory Usage - Average: "))
		Expect(report).NotTo(ContainSubstring(fmt.Sprintf("PID %d\n", invalidPID)))

		raw := ReadFile(filepath.Join(dirs[0], "raw_output.log"))
		Expect(raw).To(ContainSubstring(strconv.Itoa(pid)))
	})

	It("writes a header only report when no process is running", func() {
		session := RunNodeprobe(workDir, nil, "monitor", "--sampler", "proc", "1", strconv.Itoa(invalidPID))
		Eventually(session).Should(gexec.Exit(0))

		dirs := CaptureDirs(workDir)
		Expect(dirs).To(HaveLen(1))
		report := ReadFile(filepath.Join(dirs[0], "summary_report.txt"))
		Expect(report).To(ContainSubstring(fmt.Sprintf("Processes: %d\n", invalidPID)))
		Expect(report).NotTo(ContainSubstring("Usage"))
	})

	It("writes the optional summaries to the requested output directory", func() {
		pid := StartTarget()
		outDir := filepath.Join(workDir, "captures")

		session := RunNodeprobe(workDir, nil,
			"monitor", "--sampler", "proc", "--output-dir", outDir, "--json", "--prom", "1", strconv.Itoa(pid))
		Eventually(session).Should(gexec.Exit(0))

		dirs := CaptureDirs(outDir)
		Expect(dirs).To(HaveLen(1))
		Expect(ReadFile(filepath.Join(dirs[0], "summary.json"))).To(ContainSubstring(fmt.Sprintf(`"pid": %d`, pid)))
		Expect(ReadFile(filepath.Join(dirs[0], "summary.prom"))).To(ContainSubstring("nodeprobe_process_samples"))
	})

	It("fails when the output directory cannot be created", func() {
		blocker := filepath.Join(workDir, "file")
		Expect(os.WriteFile(blocker, nil, 0o644)).To(Succeed())

		session := RunNodeprobe(workDir, nil, "monitor", "--output-dir", blocker, "1", "1")
		Eventually(session).Should(gexec.Exit(1))
		Expect(session.Err).To(gbytes.Say("environment error"))
	})
})
