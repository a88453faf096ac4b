package handlers

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/langflow-bootstrap/internal/bootstrap"
	"github.com/imamik/langflow-bootstrap/internal/config"
	"github.com/imamik/langflow-bootstrap/internal/envfile"
	testutil "github.com/imamik/langflow-bootstrap/internal/testing"
)

func readEnv(path string) map[string]string {
	entries, err := envfile.Read(path)
	Expect(err).NotTo(HaveOccurred())
	env := make(map[string]string, len(entries))
	for _, e := range entries {
		env[e.Key] = e.Value
	}
	return env
}

func benchmarkValue(out, marker string) string {
	for _, line := range strings.Split(out, "\n") {
		if v, ok := strings.CutPrefix(line, marker); ok {
			return v
		}
	}
	return ""
}

var _ = Describe("langflow-bootstrap", func() {
	var (
		fake    *testutil.FakeLangflow
		cfg     *config.Config
		envFile string
		out     *bytes.Buffer
		ctx     context.Context
	)

	BeforeEach(func() {
		fake = testutil.NewFakeLangflow(suiteT)
		fake.AddUser("admin", "admin-pass", true, true)

		envFile = filepath.Join(GinkgoT().TempDir(), "tmp", ".env.nextjs-langflow")
		public := testutil.FlowTree(suiteT, map[string][]byte{
			"getting_started.json":    testutil.FlowDocument("Getting Started"),
			"showcase/assistant.json": testutil.FlowDocument("Assistant"),
			"showcase/rag.json":       testutil.FlowDocument("RAG"),
		})
		cfg = testutil.NewConfigBuilder(fake.URL()).
			WithAccount("langflow", "langflow").
			WithEnvFile(envFile).
			WithFlowRoots(public, testutil.ServiceFlowTree(suiteT)).
			Build()

		out = &bytes.Buffer{}
		stdout = out
		loadConfig = func(string) (*config.Config, error) { return cfg, nil }
		ctx = context.Background()
	})

	Context("when the frontend stack starts", func() {
		It("provisions service and public content into one env file", func() {
			By("running the service bootstrap")
			Expect(Run(ctx, bootstrap.ServiceUser, RunOptions{})).To(Succeed())

			By("running the public bootstrap")
			Expect(Run(ctx, bootstrap.PublicUser, RunOptions{})).To(Succeed())

			env := readEnv(envFile)
			Expect(env).To(HaveKey(bootstrap.ServiceSecretKeyEnv))
			Expect(env).To(HaveKey(bootstrap.PublicSecretKeyEnv))
			Expect(fake.APIKeyOwner(env[bootstrap.ServiceSecretKeyEnv])).To(Equal("admin"))
			Expect(fake.APIKeyOwner(env[bootstrap.PublicSecretKeyEnv])).To(Equal("langflow"))

			for _, tf := range config.DefaultTrackedFlows() {
				Expect(env[tf.EnvKey]).NotTo(BeEmpty(), tf.EnvKey)
			}

			Expect(fake.Projects("admin")).To(ConsistOf(
				HaveField("Name", "email"),
				HaveField("Name", "embedding"),
			))
			Expect(fake.Projects("langflow")).To(ConsistOf(HaveField("Name", "showcase")))
			Expect(fake.Flows("langflow")).To(HaveLen(3))
		})

		It("is safe to run twice", func() {
			Expect(Run(ctx, bootstrap.PublicUser, RunOptions{})).To(Succeed())
			first := readEnv(envFile)[bootstrap.PublicSecretKeyEnv]

			Expect(Run(ctx, bootstrap.PublicUser, RunOptions{})).To(Succeed())
			second := readEnv(envFile)[bootstrap.PublicSecretKeyEnv]

			Expect(second).NotTo(Equal(first))
			Expect(fake.Calls(testutil.RouteCreateUser)).To(Equal(1))
			Expect(fake.Calls(testutil.RouteCreateProject)).To(Equal(1))
			Expect(fake.Projects("langflow")).To(HaveLen(1))
		})
	})

	Context("when the server is still starting", func() {
		It("retries the superuser login", func() {
			fake.FailLogins(3)

			Expect(Run(ctx, bootstrap.ServiceUser, RunOptions{})).To(Succeed())
			Expect(fake.Calls(testutil.RouteLogin)).To(Equal(4))
		})

		It("gives up after the configured attempts and writes a report", func() {
			cfg.Login.MaxAttempts = 3
			fake.SetStatus(testutil.RouteLogin, 503)
			report := filepath.Join(GinkgoT().TempDir(), "report.yaml")

			err := Run(ctx, bootstrap.PublicUser, RunOptions{ReportFile: report})

			Expect(err).To(MatchError(ContainSubstring("public-user bootstrap failed")))
			Expect(fake.Calls(testutil.RouteLogin)).To(Equal(3))
			Expect(envFile).NotTo(BeAnExistingFile())

			data, readErr := os.ReadFile(report)
			Expect(readErr).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("stage: FAILED"))
		})
	})

	Context("when a load test prepares its target", func() {
		It("prints the benchmark flow and key", func() {
			Expect(Run(ctx, bootstrap.Benchmark, RunOptions{})).To(Succeed())

			flowID := benchmarkValue(out.String(), bootstrap.BenchmarkFlowIDMarker)
			apiKey := benchmarkValue(out.String(), bootstrap.BenchmarkAPIKeyMarker)
			Expect(flowID).NotTo(BeEmpty())
			Expect(fake.APIKeyOwner(apiKey)).To(Equal("admin"))
			Expect(fake.Flows("admin")).To(ContainElement(
				HaveField("Name", HavePrefix("BENCHMARK_FINAL_")),
			))
			Expect(envFile).NotTo(BeAnExistingFile())
		})
	})
})
