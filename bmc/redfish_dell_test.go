// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package bmc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/NVIDIA/libredfish/bmc/common"
	"github.com/NVIDIA/libredfish/bmc/oem"
	"github.com/NVIDIA/libredfish/bmc/schema"
	"github.com/NVIDIA/libredfish/bmc/transport"
	"github.com/NVIDIA/libredfish/bmc/transport/mock"
)

func asJSON(v any) string {
	data, err := json.Marshal(v)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return string(data)
}

func dellBios(attrs map[string]any) map[string]any {
	return map[string]any{
		"@odata.id":         "/redfish/v1/Systems/System_0/Bios",
		"Id":                "Bios",
		"Attributes":        attrs,
		"@Redfish.Settings": map[string]any{"SettingsObject": map[string]string{"@odata.id": "/redfish/v1/Systems/System_0/Bios/Settings"}},
	}
}

var _ = Describe("Dell", func() {
	var (
		ctx  context.Context
		dell *DellRedfishBMC
		t    *mock.MockTransport
	)

	BeforeEach(func() {
		ctx = context.Background()
		var base *RedfishBMC
		base, t = pinned(gomock.NewController(GinkgoT()))
		dell = &DellRedfishBMC{RedfishBMC: base}
	})

	It("Should report the Dell vendor", func() {
		Expect(dell.Vendor()).To(Equal(VendorDell))
	})

	It("Should refuse unknown boot targets without a request", func() {
		err := dell.BootFirst(ctx, Boot("Floppy"))
		Expect(common.IsNotSupported(err)).To(BeTrue())
	})

	Context("accounts", func() {
		accounts := func(slot3 string) map[string]any {
			return map[string]any{
				"AccountService/Accounts":   collection("AccountService/Accounts", "1", "2", "3"),
				"AccountService/Accounts/1": map[string]any{"@odata.id": "/redfish/v1/AccountService/Accounts/1", "Id": "1", "UserName": "", "RoleId": "None"},
				"AccountService/Accounts/2": map[string]any{"@odata.id": "/redfish/v1/AccountService/Accounts/2", "Id": "2", "UserName": "root", "RoleId": "Administrator", "Enabled": true},
				"AccountService/Accounts/3": map[string]any{"@odata.id": "/redfish/v1/AccountService/Accounts/3", "Id": "3", "UserName": slot3, "RoleId": "None"},
			}
		}

		It("Should fill the first free slot after the reserved one", func() {
			t.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(getter(accounts(""))).AnyTimes()
			var body any
			t.EXPECT().Patch(gomock.Any(), "AccountService/Accounts/3", gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, b any) (int, error) {
					body = b
					return http.StatusOK, nil
				})

			Expect(dell.CreateUser(ctx, "forge", "pw", schema.RoleAdministrator)).To(Succeed())
			Expect(asJSON(body)).To(MatchJSON(`{"UserName":"forge","Password":"pw","RoleId":"Administrator","Enabled":true}`))
		})

		It("Should fail when every slot is taken", func() {
			t.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(getter(accounts("ops"))).AnyTimes()

			err := dell.CreateUser(ctx, "forge", "pw", schema.RoleOperator)
			Expect(common.IsNotFound(err)).To(BeTrue())
		})
	})

	Context("BIOS", func() {
		It("Should delete only the scheduled BIOS configuration jobs", func() {
			t.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(getter(map[string]any{
				"Managers/BMC_0/Jobs":       collection("Managers/BMC_0/Jobs", "JID_1", "JID_2", "JID_3"),
				"Managers/BMC_0/Jobs/JID_1": map[string]any{"Id": "JID_1", "JobType": "BIOSConfiguration", "JobState": "Scheduled"},
				"Managers/BMC_0/Jobs/JID_2": map[string]any{"Id": "JID_2", "JobType": "FirmwareUpdate", "JobState": "Scheduled"},
				"Managers/BMC_0/Jobs/JID_3": map[string]any{"Id": "JID_3", "JobType": "BIOSConfiguration", "JobState": "Completed"},
			})).AnyTimes()
			t.EXPECT().Delete(gomock.Any(), "Managers/BMC_0/Jobs/JID_1").Return(http.StatusOK, nil)

			Expect(dell.ClearPending(ctx)).To(Succeed())
		})

		It("Should stage attributes for the next reset", func() {
			t.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(getter(map[string]any{
				"Systems/System_0/Bios": dellBios(map[string]any{"ProcVirtualization": "Disabled"}),
			})).AnyTimes()
			var body any
			t.EXPECT().Patch(gomock.Any(), "Systems/System_0/Bios/Settings", gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, b any) (int, error) {
					body = b
					return http.StatusOK, nil
				})

			Expect(dell.SetBios(ctx, map[string]any{"ProcVirtualization": "Enabled"})).To(Succeed())
			Expect(asJSON(body)).To(MatchJSON(`{
				"Attributes": {"ProcVirtualization": "Enabled"},
				"@Redfish.SettingsApplyTime": {"ApplyTime": "OnReset"}
			}`))
		})

		It("Should reject unknown attributes without staging", func() {
			t.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(getter(map[string]any{
				"Systems/System_0/Bios": dellBios(map[string]any{"ProcVirtualization": "Disabled"}),
			})).AnyTimes()

			err := dell.SetBios(ctx, map[string]any{"NoSuchAttribute": "On"})
			Expect(common.IsNotSupported(err)).To(BeTrue())
		})

		It("Should report the machine setup diffs", func() {
			attrs := map[string]any{}
			for k, v := range oem.DellMachineSetup {
				attrs[k] = v
			}
			attrs["TpmSecurity"] = "Off"
			t.EXPECT().Get(gomock.Any(), "Systems/System_0/Bios", gomock.Any()).DoAndReturn(getter(map[string]any{
				"Systems/System_0/Bios": dellBios(attrs),
			}))

			status, err := dell.MachineSetupStatus(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.IsDone).To(BeFalse())
			Expect(status.Diffs).To(ConsistOf(MachineSetupDiff{Key: "TpmSecurity", Expected: "On", Actual: "Off"}))
		})

		It("Should schedule a job after changing the UEFI password", func() {
			t.EXPECT().Post(gomock.Any(), "Systems/System_0/Bios/Actions/Bios.ChangePassword", gomock.Any(), nil).
				Return(&transport.Response{StatusCode: http.StatusOK}, nil)
			t.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(getter(map[string]any{
				"Systems/System_0/Bios": dellBios(map[string]any{}),
			}))
			var body any
			t.EXPECT().Post(gomock.Any(), "Managers/BMC_0/Jobs", gomock.Any(), nil).
				DoAndReturn(func(_ context.Context, _ string, b any, _ any) (*transport.Response, error) {
					body = b
					return &transport.Response{
						StatusCode: http.StatusAccepted,
						Header:     http.Header{"Location": {"/redfish/v1/Managers/BMC_0/Jobs/JID_9"}},
					}, nil
				})

			id, err := dell.ChangeUEFIPassword(ctx, "old", "new")
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("JID_9"))
			Expect(asJSON(body)).To(MatchJSON(`{"TargetSettingsURI":"/redfish/v1/Systems/System_0/Bios/Settings"}`))
		})
	})

	Context("tasks", func() {
		It("Should read iDRAC jobs for JID ids", func() {
			t.EXPECT().Get(gomock.Any(), "Managers/BMC_0/Jobs/JID_7", gomock.Any()).DoAndReturn(getter(map[string]any{
				"Managers/BMC_0/Jobs/JID_7": map[string]any{"Id": "JID_7", "JobType": "FirmwareUpdate", "JobState": "Failed", "Message": "Unable to apply"},
			}))

			task, err := dell.GetTask(ctx, "JID_7")
			Expect(err).NotTo(HaveOccurred())
			Expect(task.TaskState).To(Equal(schema.TaskStateException))
			Expect(task.Messages).To(HaveLen(1))
			Expect(task.Messages[0].Message).To(Equal("Unable to apply"))
		})

		It("Should read other ids from the task service", func() {
			t.EXPECT().Get(gomock.Any(), "TaskService/Tasks/12", gomock.Any()).DoAndReturn(getter(map[string]any{
				"TaskService/Tasks/12": map[string]any{"Id": "12", "TaskState": "Running", "PercentComplete": 50},
			}))

			task, err := dell.GetTask(ctx, "12")
			Expect(err).NotTo(HaveOccurred())
			Expect(task.TaskState).To(Equal(schema.TaskStateRunning))
			Expect(task.Percent()).To(Equal(50))
		})
	})

	Context("firmware", func() {
		var image string

		BeforeEach(func() {
			image = filepath.Join(GinkgoT().TempDir(), "idrac.exe")
			Expect(os.WriteFile(image, []byte("firmware"), 0o600)).To(Succeed())
		})

		It("Should return the job id of a multipart push", func() {
			t.EXPECT().Get(gomock.Any(), "UpdateService", gomock.Any()).DoAndReturn(getter(map[string]any{
				"UpdateService": map[string]any{"Id": "UpdateService", "MultipartHttpPushUri": "/redfish/v1/UpdateService/MultipartUpload"},
			}))
			var req transport.MultipartRequest
			var content []byte
			t.EXPECT().MultipartUpdate(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, r transport.MultipartRequest) (*transport.Response, error) {
					req = r
					var err error
					content, err = io.ReadAll(r.File)
					Expect(err).NotTo(HaveOccurred())
					return &transport.Response{StatusCode: http.StatusAccepted, Body: []byte(`{"Id":"JID_1234"}`)}, nil
				})

			id, err := dell.UpdateFirmwareMultipart(ctx, image, true, 0, schema.ComponentBMC)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("JID_1234"))
			Expect(req.TargetURL).To(Equal("/redfish/v1/UpdateService/MultipartUpload"))
			Expect(req.FollowRedirect).To(BeTrue())
			Expect(req.Path).To(Equal(image))
			Expect(string(req.Parameters)).To(MatchJSON(`{"@Redfish.OperationApplyTime":"Immediate"}`))
			Expect(string(content)).To(Equal("firmware"))
		})

		It("Should not push when the BMC has no multipart URI", func() {
			t.EXPECT().Get(gomock.Any(), "UpdateService", gomock.Any()).DoAndReturn(getter(map[string]any{
				"UpdateService": map[string]any{"Id": "UpdateService"},
			}))

			_, err := dell.UpdateFirmwareMultipart(ctx, image, false, 0, schema.ComponentBMC)
			Expect(common.IsNotSupported(err)).To(BeTrue())
		})
	})

	Context("boot order", func() {
		BeforeEach(func() {
			t.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(getter(map[string]any{
				"Systems/System_0": map[string]any{
					"@odata.id": "/redfish/v1/Systems/System_0",
					"Id":        "System_0",
					"Boot":      map[string]any{"BootOrder": []string{"Boot0000", "Boot0001", "Boot0002"}},
				},
				"Systems/System_0/BootOptions/Boot0000": map[string]any{"Id": "Boot0000", "DisplayName": "Hard drive C: BOSS-N1"},
				"Systems/System_0/BootOptions/Boot0001": map[string]any{"Id": "Boot0001", "DisplayName": "PXE Device 1: Integrated NIC 1 Port 1 Partition 1"},
				"Systems/System_0/BootOptions/Boot0002": map[string]any{"Id": "Boot0002", "DisplayName": "HTTP Device 1: NIC in Slot 5 Port 1"},
			})).AnyTimes()
		})

		It("Should move the PXE device first on the next reset", func() {
			var body any
			t.EXPECT().Patch(gomock.Any(), "Systems/System_0/Settings", gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, b any) (int, error) {
					body = b
					return http.StatusOK, nil
				})

			Expect(dell.BootFirst(ctx, BootPxe)).To(Succeed())
			Expect(asJSON(body)).To(MatchJSON(`{
				"Boot": {"BootOrder": ["Boot0001", "Boot0000", "Boot0002"]},
				"@Redfish.SettingsApplyTime": {"ApplyTime": "OnReset"}
			}`))
		})

		It("Should move the HTTP device first", func() {
			var body any
			t.EXPECT().Patch(gomock.Any(), "Systems/System_0/Settings", gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, b any) (int, error) {
					body = b
					return http.StatusOK, nil
				})

			Expect(dell.BootFirst(ctx, BootUefiHTTP)).To(Succeed())
			Expect(asJSON(body)).To(ContainSubstring(`["Boot0002","Boot0000","Boot0001"]`))
		})
	})

	Context("lockdown", func() {
		locked := map[string]any{
			"Managers/BMC_0/Attributes": map[string]any{
				"Id":         "Attributes",
				"Attributes": map[string]any{oem.DellSystemLockdown: "Enabled", oem.DellRacadmEnable: "Disabled", oem.DellIPMILanEnable: "Disabled"},
			},
			"Systems/System_0/Bios": dellBios(map[string]any{"InBandManageabilityInterface": "Disabled", "UefiVariableAccess": "Controlled"}),
		}

		It("Should not touch an iDRAC that is already locked", func() {
			t.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(getter(locked)).AnyTimes()

			Expect(dell.LockdownBMC(ctx, schema.Enabled)).To(Succeed())
			Expect(dell.Lockdown(ctx, schema.Enabled)).To(Succeed())
		})

		It("Should unlock the iDRAC", func() {
			t.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(getter(locked)).AnyTimes()
			var body any
			t.EXPECT().Patch(gomock.Any(), "Managers/BMC_0/Attributes", gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, b any) (int, error) {
					body = b
					return http.StatusOK, nil
				})

			Expect(dell.LockdownBMC(ctx, schema.Disabled)).To(Succeed())
			Expect(asJSON(body)).To(MatchJSON(`{"Attributes":{"Lockdown.1.SystemLockdown":"Disabled","Racadm.1.Enable":"Enabled"}}`))
		})

		It("Should report a fully enabled lockdown", func() {
			t.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(getter(locked)).AnyTimes()

			status, err := dell.LockdownStatus(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.IsFullyEnabled()).To(BeTrue())

			enabled, err := dell.IsIPMIOverLANEnabled(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(enabled).To(BeFalse())
		})
	})

	It("Should reset the iDRAC with root defaults", func() {
		var body any
		t.EXPECT().Post(gomock.Any(), "Managers/BMC_0/Actions/Oem/DellManager.ResetToDefaults", gomock.Any(), nil).
			DoAndReturn(func(_ context.Context, _ string, b any, _ any) (*transport.Response, error) {
				body = b
				return &transport.Response{StatusCode: http.StatusNoContent}, nil
			})

		Expect(dell.BMCResetToDefaults(ctx)).To(Succeed())
		Expect(asJSON(body)).To(MatchJSON(`{"ResetType":"ResetAllWithRootDefaults"}`))
	})
})
