// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package bmc

import (
	"context"
	"net/http"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/NVIDIA/libredfish/bmc/oem"
	"github.com/NVIDIA/libredfish/bmc/schema"
	"github.com/NVIDIA/libredfish/bmc/transport/mock"
)

func vikingBios(attrs map[string]any) map[string]any {
	return map[string]any{
		"Systems/System_0/Bios": map[string]any{
			"@odata.id":  "/redfish/v1/Systems/System_0/Bios",
			"Id":         "BIOS",
			"Attributes": attrs,
		},
	}
}

var _ = Describe("Viking", func() {
	var (
		ctx    context.Context
		viking *NvidiaRedfishBMC
		t      *mock.MockTransport
		staged []any
	)

	BeforeEach(func() {
		ctx = context.Background()
		var base *RedfishBMC
		base, t = pinned(gomock.NewController(GinkgoT()))
		viking = &NvidiaRedfishBMC{RedfishBMC: base}
		staged = nil
	})

	expectStage := func() {
		t.EXPECT().Patch(gomock.Any(), "Systems/System_0/Bios/Settings", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, b any) (int, error) {
				staged = append(staged, b)
				return http.StatusOK, nil
			})
	}

	Context("lockdown", func() {
		It("Should stage both host interfaces in one PATCH", func() {
			t.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(getter(vikingBios(map[string]any{
				"KcsInterfaceDisable": "Allow All",
				"RedfishEnable":       "Enabled",
			}))).AnyTimes()
			expectStage()

			Expect(viking.Lockdown(ctx, schema.Enabled)).To(Succeed())
			Expect(staged).To(HaveLen(1))
			Expect(asJSON(staged[0])).To(MatchJSON(`{"Attributes":{"KcsInterfaceDisable":"Deny All","RedfishEnable":"Disabled"}}`))
		})

		It("Should not stage a lockdown that is already in place", func() {
			t.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(getter(vikingBios(map[string]any{
				"KcsInterfaceDisable": "Deny All",
				"RedfishEnable":       "Disabled",
			}))).AnyTimes()

			Expect(viking.Lockdown(ctx, schema.Enabled)).To(Succeed())

			status, err := viking.LockdownStatus(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.IsFullyEnabled()).To(BeTrue())
		})

		It("Should report a partial lockdown", func() {
			t.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(getter(vikingBios(map[string]any{
				"KcsInterfaceDisable": "Deny All",
				"RedfishEnable":       "Enabled",
			}))).AnyTimes()

			status, err := viking.LockdownStatus(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.IsPartiallyEnabled()).To(BeTrue())
		})
	})

	Context("machine setup", func() {
		It("Should stage the provisioning attributes and skip the boot order without a MAC", func() {
			t.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(getter(vikingBios(map[string]any{}))).AnyTimes()
			expectStage()

			Expect(viking.MachineSetup(ctx, "")).To(Succeed())
			Expect(staged).To(HaveLen(1))
			Expect(asJSON(staged[0])).To(MatchJSON(asJSON(oem.VikingMachineSetup().Body())))
		})

		It("Should be done when every attribute matches", func() {
			attrs := map[string]any{}
			for k, v := range oem.VikingMachineSetup() {
				attrs[k] = v
			}
			t.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(getter(vikingBios(attrs))).AnyTimes()

			status, err := viking.MachineSetupStatus(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.IsDone).To(BeTrue())
			Expect(status.Diffs).To(BeEmpty())
		})

		It("Should list the attributes that differ", func() {
			attrs := map[string]any{}
			for k, v := range oem.VikingMachineSetup() {
				attrs[k] = v
			}
			attrs["Ipv4Pxe"] = "Enabled"
			delete(attrs, "EnableSgx")
			t.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(getter(vikingBios(attrs))).AnyTimes()

			status, err := viking.MachineSetupStatus(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.IsDone).To(BeFalse())
			want := []MachineSetupDiff{
				{Key: "EnableSgx", Expected: "Disabled", Actual: "<unset>"},
				{Key: "Ipv4Pxe", Expected: "Disabled", Actual: "Enabled"},
			}
			Expect(cmp.Diff(want, status.Diffs)).To(BeEmpty())
		})
	})

	It("Should stage the UEFI password change", func() {
		expectStage()

		id, err := viking.ChangeUEFIPassword(ctx, "old", "new")
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(BeEmpty())
		Expect(asJSON(staged[0])).To(MatchJSON(`{"Attributes":{"CurrentUefiPassword":"old","UefiPassword":"new"}}`))
	})

	It("Should enable rshim on the BMC", func() {
		var body any
		t.EXPECT().Patch(gomock.Any(), "Managers/BMC_0/Oem/Nvidia", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, b any) (int, error) {
				body = b
				return http.StatusOK, nil
			})

		Expect(viking.EnableRshimBMC(ctx)).To(Succeed())
		Expect(asJSON(body)).To(MatchJSON(`{"BmcRShim":{"BmcRShimEnabled":true}}`))
	})

	It("Should read network device functions from the fixed adapter", func() {
		t.EXPECT().Get(gomock.Any(), "Chassis/Card1/NetworkAdapters/NvidiaNetworkAdapter/NetworkDeviceFunctions", gomock.Any()).
			DoAndReturn(getter(map[string]any{
				"Chassis/Card1/NetworkAdapters/NvidiaNetworkAdapter/NetworkDeviceFunctions": collection(
					"Chassis/Card1/NetworkAdapters/NvidiaNetworkAdapter/NetworkDeviceFunctions", "eth0f0", "eth1f0"),
			}))

		ids, err := viking.GetNetworkDeviceFunctions(ctx, "Card1")
		Expect(err).NotTo(HaveOccurred())
		Expect(ids).To(Equal([]string{"eth0f0", "eth1f0"}))
	})
})
