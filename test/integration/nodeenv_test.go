package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
)

const initScript = `#!/bin/sh
set -e
printf '[p2p]\npex = true\nseeds = ""\n' > "$1/config/config.toml"
echo "initialized $1"
`

var _ = Describe("setup and teardown", Ordered, func() {
	var (
		workDir    string
		home       string
		configPath string
	)

	BeforeAll(func() {
		workDir = GinkgoT().TempDir()
		home = filepath.Join(workDir, "node")

		binDir := filepath.Join(workDir, "prebuilt")
		Expect(os.Mkdir(binDir, 0o755)).To(Succeed())
		WriteExecutable(filepath.Join(binDir, "chain-init"), initScript)

		configPath = filepath.Join(workDir, "nodeprobe.toml")
		cfg := fmt.Sprintf(`[setup]
home = %q
binary_source = %q
binaries = ["chain-init"]

[[setup.storage]]
name = "trie.db"
size = "1MB"

[[setup.init]]
binary = "chain-init"
args = ["{home}"]

[setup.config_overrides.p2p]
pex = false
`, home, binDir)
		Expect(os.WriteFile(configPath, []byte(cfg), 0o644)).To(Succeed())
	})

	It("sets up the node home", func() {
		session := RunNodeprobe(workDir, nil, "setup", "--config", configPath)
		Eventually(session).Should(gexec.Exit(0))

		for _, dir := range []string{"bin", "config", "data", "logs", "storage"} {
			Expect(filepath.Join(home, dir)).To(BeADirectory())
		}
		Expect(filepath.Join(home, "bin", "chain-init")).To(BeARegularFile())
		Expect(filepath.Join(home, "config", "node_key.json")).To(BeARegularFile())

		info, err := os.Stat(filepath.Join(home, "storage", "trie.db"))
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Size()).To(Equal(int64(1 << 20)))

		var cfg map[string]interface{}
		_, err = toml.DecodeFile(filepath.Join(home, "config", "config.toml"), &cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(HaveKeyWithValue("p2p", map[string]interface{}{
			"pex":   false,
			"seeds": "",
		}))
	})

	It("refuses to set up an initialized home", func() {
		session := RunNodeprobe(workDir, nil, "setup", "--config", configPath)
		Eventually(session).Should(gexec.Exit(1))
		Expect(session.Err).To(gbytes.Say("already initialized"))
	})

	It("keeps the home when teardown is not confirmed", func() {
		session := RunNodeprobe(workDir, strings.NewReader("n\n"), "teardown", "--config", configPath)
		Eventually(session).Should(gexec.Exit(1))
		Expect(session.Out).To(gbytes.Say(`\? \[y/N\]`))
		Expect(home).To(BeADirectory())
	})

	It("archives and removes the home", func() {
		archive := filepath.Join(workDir, "data.tar.gz")

		session := RunNodeprobe(workDir, nil, "teardown", "--config", configPath, "--yes", "--archive", archive)
		Eventually(session).Should(gexec.Exit(0))
		Expect(archive).To(BeARegularFile())
		Expect(home).NotTo(BeAnExistingFile())
	})
})
