package integration

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gexec"
)

var nodeprobePath string

func TestIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	SetDefaultEventuallyTimeout(30 * time.Second)
	RunSpecs(t, "Integration Test Suite")
}

var _ = BeforeSuite(func() {
	By("Building nodeprobe")

	var err error
	nodeprobePath, err = gexec.Build("github.com/voluzi/nodeprobe/cmd/nodeprobe")
	Expect(err).NotTo(HaveOccurred())
})

var _ = AfterSuite(func() {
	gexec.CleanupBuildArtifacts()
})
