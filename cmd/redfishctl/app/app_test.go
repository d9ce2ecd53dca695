// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NVIDIA/libredfish/bmc/mock/server"
)

var _ = Describe("redfishctl", func() {
	var (
		mock   *server.MockServer
		target string
	)

	BeforeEach(func() {
		mock, target = startMockBMC()
	})

	requests := func(method string) []server.Request {
		var out []server.Request
		for _, r := range mock.Requests() {
			if r.Method == method {
				out = append(out, r)
			}
		}
		return out
	}

	It("Should identify the backend", func(ctx SpecContext) {
		out, err := run(ctx, "vendor", target, "--scheme", "http")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(MatchJSON(`{"Vendor":"NvidiaGB200","Manufacturer":"NVIDIA","Model":"GB200 NVL"}`))
	})

	It("Should print the power state", func(ctx SpecContext) {
		out, err := run(ctx, "power", "state", target, "--scheme", "http")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("On\n"))
	})

	It("Should request a power action", func(ctx SpecContext) {
		_, err := run(ctx, "power", "set", target, "ForceRestart", "--scheme", "http")
		Expect(err).NotTo(HaveOccurred())

		posts := requests(http.MethodPost)
		Expect(posts).NotTo(BeEmpty())
		last := posts[len(posts)-1]
		Expect(last.Path).To(Equal("Systems/System_0/Actions/ComputerSystem.Reset"))
		Expect(last.Body).To(MatchJSON(`{"ResetType":"ForceRestart"}`))
	})

	It("Should reject an unknown power action before writing", func(ctx SpecContext) {
		_, err := run(ctx, "power", "set", target, "Sleep", "--scheme", "http")
		Expect(err).To(MatchError(ContainSubstring(`unknown PowerAction value "Sleep"`)))
		Expect(requests(http.MethodPost)).NotTo(ContainElement(HaveField("Path", ContainSubstring("Reset"))))
	})

	It("Should print BIOS attributes as YAML", func(ctx SpecContext) {
		out, err := run(ctx, "bios", "get", target, "--scheme", "http", "-o", "yaml")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Ipv4Http: Enabled\n"))
		Expect(out).To(ContainSubstring("EGMEnable: false\n"))
	})

	It("Should stage BIOS attributes with their JSON types", func(ctx SpecContext) {
		_, err := run(ctx, "bios", "set", target, "Ipv4Pxe=Enabled", "EGMEnable=true", "--scheme", "http")
		Expect(err).NotTo(HaveOccurred())

		staged, ok := mock.Resource("Systems/System_0/Bios/Settings")
		Expect(ok).To(BeTrue())
		Expect(staged).To(HaveKeyWithValue("Attributes", And(
			HaveKeyWithValue("Ipv4Pxe", "Enabled"),
			HaveKeyWithValue("EGMEnable", true),
		)))
	})

	It("Should push firmware and wait for the task", func(ctx SpecContext) {
		image := filepath.Join(GinkgoT().TempDir(), "bmc.fwpkg")
		Expect(os.WriteFile(image, []byte("firmware"), 0o600)).To(Succeed())

		out, err := run(ctx, "firmware", "update", target, image,
			"--scheme", "http", "--component", "BMC", "--wait", "--poll-interval", "1ms")
		Expect(err).NotTo(HaveOccurred())

		var task map[string]any
		Expect(json.Unmarshal([]byte(out), &task)).To(Succeed())
		Expect(task).To(HaveKeyWithValue("TaskState", "Completed"))
		Expect(task).To(HaveKeyWithValue("PercentComplete", BeNumerically("==", 100)))
	})

	It("Should print raw resources and collections", func(ctx SpecContext) {
		out, err := run(ctx, "get", target, "Systems/System_0", "--scheme", "http")
		Expect(err).NotTo(HaveOccurred())
		var system map[string]any
		Expect(json.Unmarshal([]byte(out), &system)).To(Succeed())
		Expect(system).To(HaveKeyWithValue("Id", "System_0"))

		out, err = run(ctx, "get", target, "Systems", "--collection", "--scheme", "http")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(MatchJSON(`["System_0"]`))
	})

	It("Should resolve named endpoints from the config file", func(ctx SpecContext) {
		host, port, err := net.SplitHostPort(target)
		Expect(err).NotTo(HaveOccurred())
		config := filepath.Join(GinkgoT().TempDir(), "redfishctl.yaml")
		Expect(os.WriteFile(config, []byte(`
endpoints:
  node-a:
    address: `+host+`
    port: `+port+`
    scheme: http
    vendor: Dell
`), 0o600)).To(Succeed())

		out, err := run(ctx, "vendor", "node-a", "--config", config)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(MatchJSON(`{"Vendor":"Dell","Manufacturer":"NVIDIA","Model":"GB200 NVL"}`))

		out, err = run(ctx, "vendor", "node-a", "--config", config, "--vendor", "standard")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(`"Vendor": "Standard"`))
	})

	It("Should report the lockdown status", func(ctx SpecContext) {
		out, err := run(ctx, "lockdown", target, "status", "--scheme", "http")
		Expect(err).NotTo(HaveOccurred())
		var status map[string]string
		Expect(json.Unmarshal([]byte(out), &status)).To(Succeed())
		Expect(status).To(HaveKey("State"))
	})

	It("Should reject invalid flag values", func(ctx SpecContext) {
		_, err := run(ctx, "vendor", target, "--vendor", "hpe")
		Expect(err).To(HaveOccurred())

		_, err = run(ctx, "vendor", target, "-o", "xml")
		Expect(err).To(MatchError(ContainSubstring(`unsupported output format "xml"`)))
	})

	It("Should fail with wrong credentials", func(ctx SpecContext) {
		setenv("REDFISH_PASSWORD", "wrong")
		_, err := run(ctx, "power", "state", target, "--scheme", "http")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("parseAttributes", func() {
	It("Should keep JSON types and fall back to strings", func() {
		attrs, err := parseAttributes([]string{"A=1", "B=true", "C=Enabled", `D="quoted"`, "E="})
		Expect(err).NotTo(HaveOccurred())
		Expect(attrs).To(Equal(map[string]any{
			"A": float64(1),
			"B": true,
			"C": "Enabled",
			"D": "quoted",
			"E": "",
		}))
	})

	It("Should reject pairs without a key", func() {
		_, err := parseAttributes([]string{"=1"})
		Expect(err).To(HaveOccurred())
		_, err = parseAttributes([]string{"A"})
		Expect(err).To(HaveOccurred())
	})
})
