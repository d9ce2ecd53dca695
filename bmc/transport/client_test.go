// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/NVIDIA/libredfish/bmc/common"
)

var _ = Describe("Client", func() {
	var (
		ctx    context.Context
		bmc    *fakeBMC
		client *Client
		reg    *prometheus.Registry
	)

	BeforeEach(func() {
		ctx = context.Background()
		bmc = newFakeBMC()
		reg = prometheus.NewRegistry()
		opts := fastOptions()
		opts.Registerer = reg
		var err error
		client, err = NewClient(bmc.endpoint(), opts)
		Expect(err).NotTo(HaveOccurred())
		bmc.handle("GET /redfish/v1/Systems/1", writeJSON(`{"Id":"1","PowerState":"On","Count":12345678901234567890}`))
	})

	Describe("sessions", func() {
		It("should create one session and reuse its token", func() {
			for range 3 {
				out := map[string]any{}
				code, err := client.Get(ctx, "Systems/1", &out)
				Expect(err).NotTo(HaveOccurred())
				Expect(code).To(Equal(http.StatusOK))
				Expect(out).To(HaveKeyWithValue("PowerState", "On"))
			}
			Expect(bmc.count("POST /redfish/v1/SessionService/Sessions")).To(Equal(1))
			Expect(bmc.count("GET /redfish/v1/Systems/1")).To(Equal(3))
			Expect(testutil.ToFloat64(client.metrics.logins.WithLabelValues(bmc.endpoint().Host))).To(Equal(1.0))
		})

		It("should reauthenticate exactly once after the session expired", func() {
			_, err := client.Get(ctx, "Systems/1", nil)
			Expect(err).NotTo(HaveOccurred())
			bmc.expireSessions()
			bmc.resetLog()

			out := map[string]any{}
			_, err = client.Get(ctx, "Systems/1", &out)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HaveKeyWithValue("Id", "1"))
			Expect(bmc.log()).To(Equal([]string{
				"GET /redfish/v1/Systems/1",
				"POST /redfish/v1/SessionService/Sessions",
				"GET /redfish/v1/Systems/1",
			}))
		})

		It("should coalesce concurrent reauthentications", func() {
			_, err := client.Get(ctx, "Systems/1", nil)
			Expect(err).NotTo(HaveOccurred())
			bmc.expireSessions()
			bmc.resetLog()

			var wg sync.WaitGroup
			var failures atomic.Int32
			for range 8 {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					if _, err := client.Get(ctx, "Systems/1", nil); err != nil {
						failures.Add(1)
					}
				}()
			}
			wg.Wait()
			Expect(failures.Load()).To(BeZero())
			Expect(bmc.count("POST /redfish/v1/SessionService/Sessions")).To(Equal(1))
		})

		It("should fail with an authentication error when the new session is rejected as well", func() {
			bmc.handle("GET /redfish/v1/Managers/1", status(http.StatusUnauthorized))
			_, err := client.Get(ctx, "Managers/1", nil)
			Expect(common.IsAuthentication(err)).To(BeTrue())
			Expect(common.StatusCode(err)).To(Equal(http.StatusUnauthorized))
			Expect(bmc.count("GET /redfish/v1/Managers/1")).To(Equal(2))
			Expect(bmc.count("POST /redfish/v1/SessionService/Sessions")).To(Equal(2))
		})

		It("should not reauthenticate on 403", func() {
			bmc.handle("GET /redfish/v1/Managers/1", status(http.StatusForbidden))
			_, err := client.Get(ctx, "Managers/1", nil)
			Expect(common.IsAuthentication(err)).To(BeTrue())
			Expect(bmc.count("GET /redfish/v1/Managers/1")).To(Equal(1))
			Expect(bmc.count("POST /redfish/v1/SessionService/Sessions")).To(Equal(1))
		})

		It("should fall back to basic auth when the BMC has no session service", func() {
			bmc.mu.Lock()
			bmc.noSessions = http.StatusMethodNotAllowed
			bmc.mu.Unlock()
			for range 2 {
				_, err := client.Get(ctx, "Systems/1", nil)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(bmc.count("POST /redfish/v1/SessionService/Sessions")).To(Equal(1))
		})

		It("should use basic auth without a session when asked to", func() {
			opts := fastOptions()
			opts.BasicAuth = true
			basic, err := NewClient(bmc.endpoint(), opts)
			Expect(err).NotTo(HaveOccurred())
			_, err = basic.Get(ctx, "Systems/1", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(bmc.count("POST /redfish/v1/SessionService/Sessions")).To(BeZero())
		})

		It("should delete the session on logout", func() {
			_, err := client.Get(ctx, "Systems/1", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(client.Logout(ctx)).To(Succeed())
			Expect(bmc.count("DELETE /redfish/v1/SessionService/Sessions/1")).To(Equal(1))
		})
	})

	Describe("retries", func() {
		It("should retry GET on 5xx", func() {
			var calls atomic.Int32
			bmc.handle("GET /redfish/v1/Chassis", func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) < 3 {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				writeJSON(`{"Members":[]}`)(w, r)
			})
			_, err := client.Get(ctx, "Chassis", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(calls.Load()).To(Equal(int32(3)))
			Expect(testutil.ToFloat64(client.metrics.retries.WithLabelValues(bmc.endpoint().Host, http.MethodGet))).To(Equal(2.0))
		})

		It("should give up after the configured number of retries", func() {
			bmc.handle("GET /redfish/v1/Chassis", status(http.StatusInternalServerError))
			_, err := client.Get(ctx, "Chassis", nil)
			var remote *common.RemoteError
			Expect(errors.As(err, &remote)).To(BeTrue())
			Expect(remote.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(bmc.count("GET /redfish/v1/Chassis")).To(Equal(DefaultMaxRetries + 1))
		})

		DescribeTable("issuing mutating requests at most once on HTTP errors",
			func(method string, code int) {
				bmc.handle(method+" /redfish/v1/Systems/1/Bios/Settings", status(code))
				var err error
				switch method {
				case http.MethodPatch:
					_, err = client.Patch(ctx, "Systems/1/Bios/Settings", map[string]any{"Attributes": map[string]any{}})
				case http.MethodPost:
					_, err = client.Post(ctx, "Systems/1/Bios/Settings", map[string]any{}, nil)
				case http.MethodDelete:
					_, err = client.Delete(ctx, "Systems/1/Bios/Settings")
				}
				Expect(err).To(HaveOccurred())
				Expect(common.StatusCode(err)).To(Equal(code))
				Expect(bmc.count(method + " /redfish/v1/Systems/1/Bios/Settings")).To(Equal(1))
			},
			Entry("PATCH 500", http.MethodPatch, http.StatusInternalServerError),
			Entry("PATCH 400", http.MethodPatch, http.StatusBadRequest),
			Entry("POST 500", http.MethodPost, http.StatusInternalServerError),
			Entry("POST 400", http.MethodPost, http.StatusBadRequest),
			Entry("DELETE 503", http.MethodDelete, http.StatusServiceUnavailable),
			Entry("DELETE 409", http.MethodDelete, http.StatusConflict),
		)

		It("should retry POST when the connection drops", func() {
			var calls atomic.Int32
			bmc.handle("POST /redfish/v1/Systems/1/Actions/ComputerSystem.Reset", func(w http.ResponseWriter, _ *http.Request) {
				if calls.Add(1) == 1 {
					hj, ok := w.(http.Hijacker)
					Expect(ok).To(BeTrue())
					conn, _, err := hj.Hijack()
					Expect(err).NotTo(HaveOccurred())
					_ = conn.Close()
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})
			resp, err := client.Post(ctx, "Systems/1/Actions/ComputerSystem.Reset", map[string]string{"ResetType": "On"}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
			Expect(calls.Load()).To(Equal(int32(2)))
		})

		It("should report an unreachable BMC as a transport error", func() {
			ep := bmc.endpoint()
			bmc.Close()
			opts := fastOptions()
			opts.MaxRetries = 1
			unreachable, err := NewClient(ep, opts)
			Expect(err).NotTo(HaveOccurred())
			_, err = unreachable.Get(ctx, "Systems/1", nil)
			var transportErr *common.TransportError
			Expect(errors.As(err, &transportErr)).To(BeTrue())
		})
	})

	Describe("requests and responses", func() {
		It("should never send the Redfish prefix twice", func() {
			for _, u := range []string{"/redfish/v1/Systems/1", "redfish/v1/Systems/1", "Systems/1", "/Systems/1/"} {
				_, err := client.Get(ctx, u, nil)
				Expect(err).NotTo(HaveOccurred())
			}
			for _, r := range bmc.log() {
				path := strings.SplitN(r, " ", 2)[1]
				Expect(path).To(HavePrefix("/redfish/v1/"))
				Expect(strings.TrimPrefix(path, "/redfish/v1/")).NotTo(HavePrefix("redfish/v1"))
			}
			Expect(bmc.count("GET /redfish/v1/Systems/1")).To(Equal(4))
		})

		It("should keep numbers lossless", func() {
			out := map[string]any{}
			_, err := client.Get(ctx, "Systems/1", &out)
			Expect(err).NotTo(HaveOccurred())
			Expect(out["Count"]).To(Equal(json.Number("12345678901234567890")))
		})

		It("should report a body that does not match the schema", func() {
			bmc.handle("GET /redfish/v1/Systems/2", writeJSON(`{"Id": 5`))
			var out struct{ ID string }
			_, err := client.Get(ctx, "/redfish/v1/Systems/2", &out)
			var decodeErr *common.JSONDeserializeError
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
			Expect(decodeErr.URL).To(Equal("Systems/2"))
			Expect(decodeErr.Body).To(Equal(`{"Id": 5`))
			Expect(bmc.count("GET /redfish/v1/Systems/2")).To(Equal(1))
		})

		It("should map 404 to NotFound", func() {
			_, err := client.Get(ctx, "Systems/404", nil)
			Expect(common.IsNotFound(err)).To(BeTrue())
		})

		It("should keep the extended info of Redfish errors", func() {
			bmc.handle("PATCH /redfish/v1/Systems/1", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"code":"Base.1.8.GeneralError","message":"A general error has occurred.",` +
					`"@Message.ExtendedInfo":[{"MessageId":"Base.1.8.PropertyValueNotInList","Message":"The value Foo is not allowed.","Severity":"Warning"}]}}`))
			})
			_, err := client.Patch(ctx, "Systems/1", map[string]any{"Boot": map[string]any{"BootSourceOverrideTarget": "Foo"}})
			var remote *common.RemoteError
			Expect(errors.As(err, &remote)).To(BeTrue())
			Expect(remote.Redfish).NotTo(BeNil())
			Expect(remote.Redfish.Error.Code).To(Equal("Base.1.8.GeneralError"))
			Expect(remote.ExtendedInfo()).To(HaveLen(1))
			Expect(remote.ExtendedInfo()[0].MessageID).To(Equal("Base.1.8.PropertyValueNotInList"))
		})

		It("should send JSON bodies and expose the Location header", func() {
			bmc.handle("POST /redfish/v1/AccountService/Accounts", func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Header.Get("Content-Type")).To(Equal("application/json"))
				var body map[string]any
				Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
				Expect(body).To(HaveKeyWithValue("UserName", "operator"))
				w.Header().Set("Location", "https://bmc.example/redfish/v1/AccountService/Accounts/3")
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"Id":"3"}`))
			})
			var created struct{ ID string `json:"Id"` }
			resp, err := client.Post(ctx, "AccountService/Accounts", map[string]string{"UserName": "operator"}, &created)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Location()).To(Equal("AccountService/Accounts/3"))
			Expect(created.ID).To(Equal("3"))
		})

		It("should tolerate empty POST answers", func() {
			bmc.handle("POST /redfish/v1/Managers/1/Actions/Manager.Reset", status(http.StatusNoContent))
			var out map[string]any
			_, err := client.Post(ctx, "Managers/1/Actions/Manager.Reset", map[string]string{"ResetType": "GracefulRestart"}, &out)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(BeNil())
		})

		It("should count requests per status code", func() {
			_, err := client.Get(ctx, "Systems/1", nil)
			Expect(err).NotTo(HaveOccurred())
			host := bmc.endpoint().Host
			Expect(testutil.ToFloat64(client.metrics.requests.WithLabelValues(host, http.MethodGet, "200"))).To(Equal(1.0))
			Expect(testutil.ToFloat64(client.metrics.requests.WithLabelValues(host, http.MethodPost, "201"))).To(Equal(1.0))
			Expect(testutil.CollectAndCount(client.metrics.duration)).To(Equal(2))
		})

		It("should export the metrics on the given registerer", func() {
			_, err := client.Get(ctx, "Systems/1", nil)
			Expect(err).NotTo(HaveOccurred())

			families, err := reg.Gather()
			Expect(err).NotTo(HaveOccurred())
			byName := map[string]*dto.MetricFamily{}
			for _, f := range families {
				byName[f.GetName()] = f
			}
			Expect(byName).To(HaveKey("redfish_client_requests_total"))
			Expect(byName["redfish_client_requests_total"].GetType()).To(Equal(dto.MetricType_COUNTER))
			Expect(byName).To(HaveKey("redfish_client_request_duration_seconds"))
			Expect(byName["redfish_client_request_duration_seconds"].GetType()).To(Equal(dto.MetricType_HISTOGRAM))

			labels := map[string]string{}
			for _, l := range byName["redfish_client_session_logins_total"].GetMetric()[0].GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			Expect(labels).To(HaveKeyWithValue("host", bmc.endpoint().Host))
		})
	})

	Describe("concurrency", func() {
		It("should bound the number of requests in flight", func() {
			opts := fastOptions()
			opts.MaxInFlight = 1
			bounded, err := NewClient(bmc.endpoint(), opts)
			Expect(err).NotTo(HaveOccurred())
			bmc.handle("GET /redfish/v1/Slow", func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(20 * time.Millisecond)
				writeJSON(`{}`)(w, r)
			})
			_, err = bounded.Get(ctx, "Slow", nil)
			Expect(err).NotTo(HaveOccurred())

			var wg sync.WaitGroup
			for range 4 {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := bounded.Get(ctx, "Slow", nil)
					Expect(err).NotTo(HaveOccurred())
				}()
			}
			wg.Wait()
			bmc.mu.Lock()
			defer bmc.mu.Unlock()
			Expect(bmc.maxFlight).To(Equal(1))
		})

		It("should release the slot when the caller gives up", func() {
			opts := fastOptions()
			opts.MaxInFlight = 1
			bounded, err := NewClient(bmc.endpoint(), opts)
			Expect(err).NotTo(HaveOccurred())
			release := make(chan struct{})
			bmc.handle("GET /redfish/v1/Hang", func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-release:
				case <-r.Context().Done():
				}
				w.WriteHeader(http.StatusOK)
			})
			defer close(release)

			cctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer cancel()
			_, err = bounded.Get(cctx, "Hang", nil)
			var transportErr *common.TransportError
			Expect(errors.As(err, &transportErr)).To(BeTrue())

			_, err = bounded.Get(ctx, "Systems/1", nil)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})

var _ = Describe("Endpoint", func() {
	It("should default to https on 443", func() {
		ep := Endpoint{Host: "10.0.0.1", Username: "root"}
		Expect(ep.BaseURL()).To(Equal("https://10.0.0.1:443"))
		Expect(ep.Key()).To(Equal("https://10.0.0.1:443/root"))
	})

	It("should bracket IPv6 hosts", func() {
		ep := Endpoint{Host: "fd00::1", Port: 8443}
		Expect(ep.BaseURL()).To(Equal("https://[fd00::1]:8443"))
	})

	It("should reject invalid endpoints", func() {
		Expect(Endpoint{}.Validate()).NotTo(Succeed())
		Expect(Endpoint{Host: "bmc", Scheme: "ftp"}.Validate()).NotTo(Succeed())
		Expect(Endpoint{Host: "bmc", Port: 70000}.Validate()).NotTo(Succeed())
		Expect(Endpoint{Host: "bmc"}.Validate()).To(Succeed())
	})
})

var _ = Describe("Response", func() {
	It("should normalize the Location header", func() {
		resp := &Response{Header: http.Header{"Location": []string{"/redfish/v1/TaskService/Tasks/7"}}}
		Expect(resp.Location()).To(Equal("TaskService/Tasks/7"))
		Expect((&Response{Header: http.Header{}}).Location()).To(BeEmpty())
		Expect((*Response)(nil).Location()).To(BeEmpty())
	})
})

var _ = Describe("Options", func() {
	It("should fill in defaults", func() {
		opts, err := Options{MaxRetries: 7}.withDefaults()
		Expect(err).NotTo(HaveOccurred())
		Expect(opts.MaxRetries).To(Equal(uint(7)))
		Expect(opts.MaxInFlight).To(Equal(int64(DefaultMaxInFlight)))
		Expect(opts.MaxRetryElapsed).To(Equal(DefaultMaxRetryElapsed))
		Expect(opts.RetryInitialInterval).To(Equal(DefaultRetryInitialInterval))
		Expect(opts.RetryMaxInterval).To(Equal(DefaultRetryMaxInterval))
		Expect(opts.maxTries()).To(Equal(uint(8)))
	})

	It("should issue a single attempt when retries are disabled", func() {
		Expect(Options{DisableRetries: true, MaxRetries: 3}.maxTries()).To(Equal(uint(1)))
	})
})
