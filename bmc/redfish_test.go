// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package bmc

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NVIDIA/libredfish/bmc/common"
	"github.com/NVIDIA/libredfish/bmc/schema"
)

var _ = Describe("RedfishBMC", func() {
	var (
		ctx  context.Context
		mock *mockBMC
		r    BMC
	)

	BeforeEach(func() {
		ctx = context.Background()
		mock = newMockBMC()
		var err error
		r, err = NewBMCForVendor(ctx, mock.client, VendorStandard)
		Expect(err).NotTo(HaveOccurred())
		mock.ResetRequests()
	})

	It("should pin the first system and manager", func() {
		base := r.(*RedfishBMC)
		Expect(base.SystemID()).To(Equal("System_0"))
		Expect(base.ManagerID()).To(Equal("BMC_0"))
	})

	Describe("accounts", func() {
		It("should list accounts sorted by id", func() {
			accounts, err := r.GetAccounts(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(accounts).To(HaveLen(2))
			Expect(accounts[0].UserName).To(Equal("root"))
			Expect(accounts[1].RoleID).To(Equal(schema.RoleOperator))
		})

		It("should create a user and change its password", func() {
			Expect(r.CreateUser(ctx, "machine", "initial", schema.RoleAdministrator)).To(Succeed())
			accounts, err := r.GetAccounts(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(accounts).To(HaveLen(3))
			Expect(accounts[2].UserName).To(Equal("machine"))

			mock.ResetRequests()
			Expect(r.ChangePassword(ctx, "machine", "rotated")).To(Succeed())
			patches := mock.requests(http.MethodPatch)
			Expect(patches).To(HaveLen(1))
			Expect(patches[0].Path).To(Equal("AccountService/Accounts/3"))
			Expect(bodyOf(patches[0])).To(Equal(map[string]any{"Password": "rotated"}))
		})

		It("should report an unknown user as not found", func() {
			err := r.ChangeUsername(ctx, "nobody", "somebody")
			Expect(common.IsNotFound(err)).To(BeTrue())
			Expect(mock.requests(http.MethodPatch)).To(BeEmpty())
		})

		It("should stop machine accounts from locking", func() {
			Expect(r.SetMachinePasswordPolicy(ctx)).To(Succeed())
			service, ok := mock.Resource("AccountService")
			Expect(ok).To(BeTrue())
			Expect(service).To(HaveKeyWithValue("AccountLockoutThreshold", BeNumerically("==", 0)))
			Expect(service).To(HaveKeyWithValue("AccountLockoutDuration", BeNumerically("==", 600)))
		})
	})

	Describe("lockdown", func() {
		It("should only write what differs from the target", func() {
			status, err := r.LockdownStatus(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.IsPartiallyEnabled()).To(BeTrue())

			Expect(r.Lockdown(ctx, schema.Enabled)).To(Succeed())
			patches := mock.requests(http.MethodPatch)
			Expect(patches).To(HaveLen(1))
			Expect(patches[0].Path).To(Equal("Managers/BMC_0/NetworkProtocol"))
			Expect(bodyOf(patches[0])).To(Equal(map[string]any{"IPMI": map[string]any{"ProtocolEnabled": false}}))

			status, err = r.LockdownStatus(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.IsFullyEnabled()).To(BeTrue())

			mock.ResetRequests()
			Expect(r.Lockdown(ctx, schema.Enabled)).To(Succeed())
			Expect(mock.requests(http.MethodPatch)).To(BeEmpty())

			Expect(r.Lockdown(ctx, schema.Disabled)).To(Succeed())
			status, err = r.LockdownStatus(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.IsFullyDisabled()).To(BeTrue())
		})

		It("should leave an enabled serial console alone", func() {
			Expect(r.SetupSerialConsole(ctx)).To(Succeed())
			Expect(mock.requests(http.MethodPatch)).To(BeEmpty())
			status, err := r.SerialConsoleStatus(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.IsFullyEnabled()).To(BeTrue())
		})

		It("should not offer BMC lockdown", func() {
			Expect(common.IsNotSupported(r.LockdownBMC(ctx, schema.Enabled))).To(BeTrue())
		})
	})

	Describe("BIOS", func() {
		It("should report and clear pending attributes", func() {
			pending, err := r.Pending(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(Equal(map[string]any{"EGMEnable": true}))

			Expect(r.ClearPending(ctx)).To(Succeed())
			patches := mock.requests(http.MethodPatch)
			Expect(patches).To(HaveLen(1))
			Expect(patches[0].Path).To(Equal("Systems/System_0/Bios/Settings"))
			Expect(bodyOf(patches[0])).To(Equal(map[string]any{"Attributes": map[string]any{"EGMEnable": false}}))

			pending, err = r.Pending(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(BeEmpty())
		})

		It("should reject attributes of the wrong type without writing", func() {
			err := r.SetBios(ctx, map[string]any{"EGMEnable": "yes"})
			Expect(common.IsNotSupported(err)).To(BeTrue())
			Expect(mock.requests(http.MethodPatch)).To(BeEmpty())
		})

		It("should stage valid attributes", func() {
			Expect(r.SetBios(ctx, map[string]any{"EGMEnable": true, "Ipv4Pxe": "Enabled"})).To(Succeed())
			staged, ok := mock.Resource("Systems/System_0/Bios/Settings")
			Expect(ok).To(BeTrue())
			Expect(staged).To(HaveKeyWithValue("Attributes", HaveKeyWithValue("Ipv4Pxe", "Enabled")))
		})
	})

	It("should refuse unknown boot targets without a request", func() {
		Expect(common.IsNotSupported(r.BootFirst(ctx, Boot("Floppy")))).To(BeTrue())
		Expect(common.IsNotSupported(r.BootOnce(ctx, Boot("Floppy")))).To(BeTrue())
		Expect(mock.Requests()).To(BeEmpty())
	})

	Describe("power", func() {
		It("should read the power state", func() {
			state, err := r.GetPowerState(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(Equal(schema.PowerStateOn))
		})

		It("should request the reset type", func() {
			Expect(r.Power(ctx, schema.PowerActionForceOff)).To(Succeed())
			Expect(r.BMCReset(ctx)).To(Succeed())

			posts := mock.requests(http.MethodPost)
			Expect(posts).To(HaveLen(2))
			Expect(posts[0].Path).To(Equal("Systems/System_0/Actions/ComputerSystem.Reset"))
			Expect(bodyOf(posts[0])).To(Equal(map[string]any{"ResetType": "ForceOff"}))
			Expect(posts[1].Path).To(Equal("Managers/BMC_0/Actions/Manager.Reset"))
			Expect(bodyOf(posts[1])).To(Equal(map[string]any{"ResetType": "GracefulRestart"}))
		})

		It("should refuse reset types outside the Redfish ResetType set", func() {
			err := r.Power(ctx, schema.PowerAction("Suspend"))
			Expect(common.IsNotSupported(err)).To(BeTrue())
			err = r.ChassisReset(ctx, "Chassis_0", schema.PowerAction("Suspend"))
			Expect(common.IsNotSupported(err)).To(BeTrue())
			Expect(mock.Requests()).To(BeEmpty())
		})

		It("should only request reset types the chassis allows", func() {
			err := r.ChassisReset(ctx, "Chassis_0", schema.PowerActionForceOff)
			Expect(common.IsNotSupported(err)).To(BeTrue())
			Expect(mock.requests(http.MethodPost)).To(BeEmpty())

			Expect(r.ChassisReset(ctx, "Chassis_0", schema.PowerActionPowerCycle)).To(Succeed())
			posts := mock.requests(http.MethodPost)
			Expect(posts).To(HaveLen(1))
			Expect(posts[0].Path).To(Equal("Chassis/Chassis_0/Actions/Chassis.Reset"))
			Expect(bodyOf(posts[0])).To(Equal(map[string]any{"ResetType": "PowerCycle"}))
		})

		It("should reset chassis that do not advertise their reset types", func() {
			Expect(r.ChassisReset(ctx, "PDB_0", schema.PowerActionForceOff)).To(Succeed())
			posts := mock.requests(http.MethodPost)
			Expect(posts).To(HaveLen(1))
			Expect(bodyOf(posts[0])).To(Equal(map[string]any{"ResetType": "ForceOff"}))
		})

		It("should map every power action to the reset type of the same name", func() {
			for _, action := range schema.PowerActions() {
				rt, err := resetType(action)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(rt)).To(Equal(string(action)))
			}
		})

		It("should reset the BMC to its defaults", func() {
			Expect(r.BMCResetToDefaults(ctx)).To(Succeed())
			posts := mock.requests(http.MethodPost)
			Expect(posts).To(HaveLen(1))
			Expect(bodyOf(posts[0])).To(Equal(map[string]any{"ResetType": "ResetAll"}))
		})
	})

	Describe("firmware", func() {
		It("should list and read the firmware inventory", func() {
			ids, err := r.GetSoftwareInventories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(Equal([]string{"FW_BMC_0", "FW_UEFI"}))
			fw, err := r.GetFirmware(ctx, "FW_BMC_0")
			Expect(err).NotTo(HaveOccurred())
			Expect(fw.Version).To(Equal("GB200Nvl-25.01-E"))
		})

		It("should follow the Location of a simple update", func() {
			task, err := r.UpdateFirmwareSimpleUpdate(ctx, "https://images.example.org/bmc.fwpkg", nil, schema.TransferProtocolHTTPS)
			Expect(err).NotTo(HaveOccurred())
			Expect(task.ID).To(Equal("0"))
			Expect(task.TaskState).To(Equal(schema.TaskStateNew))

			posts := mock.requests(http.MethodPost)
			Expect(posts).To(HaveLen(1))
			Expect(posts[0].Path).To(Equal("UpdateService/Actions/UpdateService.SimpleUpdate"))
			Expect(bodyOf(posts[0])).To(HaveKeyWithValue("TransferProtocol", "HTTPS"))
		})

		It("should refuse a protocol the service does not allow", func() {
			_, err := r.UpdateFirmwareSimpleUpdate(ctx, "tftp://images.example.org/bmc.fwpkg", nil, schema.TransferProtocolTFTP)
			Expect(common.IsNotSupported(err)).To(BeTrue())
			Expect(mock.requests(http.MethodPost)).To(BeEmpty())
		})

		It("should take the task from the body of an HTTP push", func() {
			image := filepath.Join(GinkgoT().TempDir(), "bmc.fwpkg")
			Expect(os.WriteFile(image, []byte("firmware"), 0o600)).To(Succeed())
			file, err := os.Open(image)
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(file.Close)

			task, err := r.UpdateFirmware(ctx, file)
			Expect(err).NotTo(HaveOccurred())
			Expect(task.ID).To(Equal("0"))
		})

		It("should list the created tasks", func() {
			_, err := r.UpdateFirmwareSimpleUpdate(ctx, "https://images.example.org/a.fwpkg", nil, schema.TransferProtocolHTTPS)
			Expect(err).NotTo(HaveOccurred())
			_, err = r.AddSecureBootCertificate(ctx, "-----BEGIN CERTIFICATE-----")
			Expect(err).NotTo(HaveOccurred())

			tasks, err := r.GetTasks(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(Equal([]string{"0", "1"}))
		})
	})

	Describe("WaitForTask", func() {
		It("should return the messages of a failed task", func() {
			mock.SetTaskFinalState("Exception")
			task, err := r.UpdateFirmwareSimpleUpdate(ctx, "https://images.example.org/bmc.fwpkg", nil, "")
			Expect(err).NotTo(HaveOccurred())

			task, err = WaitForTask(ctx, r, task.ID, TaskPollOptions{Interval: time.Millisecond, Timeout: 5 * time.Second})
			Expect(task.TaskState).To(Equal(schema.TaskStateException))
			var remote *common.RemoteError
			Expect(errors.As(err, &remote)).To(BeTrue())
			Expect(remote.URL).To(Equal("TaskService/Tasks/0"))
			Expect(remote.ExtendedInfo()).To(HaveLen(1))
			Expect(remote.ExtendedInfo()[0].MessageID).To(Equal("Update.1.0.ApplyFailed"))
		})

		It("should accept the @odata.id of a task", func() {
			_, err := r.UpdateFirmwareSimpleUpdate(ctx, "https://images.example.org/bmc.fwpkg", nil, "")
			Expect(err).NotTo(HaveOccurred())

			task, err := WaitForTask(ctx, r, "/redfish/v1/TaskService/Tasks/0", TaskPollOptions{Interval: time.Millisecond, Timeout: 5 * time.Second})
			Expect(err).NotTo(HaveOccurred())
			Expect(task.TaskState).To(Equal(schema.TaskStateCompleted))
		})
	})

	Describe("transport failures", func() {
		It("should retry a GET on a server error", func() {
			mock.Fail(http.MethodGet, "Systems/System_0", http.StatusServiceUnavailable, 1)
			_, err := r.GetSystem(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(mock.requests(http.MethodGet)).To(HaveLen(2))
		})

		It("should log in again after the sessions expired", func() {
			mock.ExpireSessions()
			system, err := r.GetSystem(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(system.ID).To(Equal("System_0"))

			logins := 0
			for _, req := range mock.requests(http.MethodPost) {
				if req.Path == "SessionService/Sessions" {
					logins++
				}
			}
			Expect(logins).To(Equal(1))
		})

		It("should surface the Redfish error of a rejected PATCH", func() {
			mock.Fail(http.MethodPatch, "Systems/System_0/SecureBoot", http.StatusBadRequest, 1)
			err := r.EnableSecureBoot(ctx)
			var remote *common.RemoteError
			Expect(errors.As(err, &remote)).To(BeTrue())
			Expect(remote.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(remote.Redfish).NotTo(BeNil())
			Expect(remote.Redfish.Error.Code).To(Equal("Base.1.0.GeneralError"))
			Expect(common.StatusCode(err)).To(Equal(http.StatusBadRequest))
			Expect(mock.requests(http.MethodPatch)).To(HaveLen(1))
		})
	})

	Describe("raw access", func() {
		It("should read the service root and arbitrary resources", func() {
			root, err := r.GetServiceRoot(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(root.Product).To(Equal("GB200 NVL"))

			c, err := r.GetCollection(ctx, "/redfish/v1/Chassis")
			Expect(err).NotTo(HaveOccurred())
			Expect(c.IDs()).To(Equal([]string{"PDB_0", "Chassis_0", "HGX_GPU_0", "BMC_0"}))

			res, err := r.GetResource(ctx, "Chassis/PDB_0/Sensors/HSC_0_Pwr")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.ODataID).To(Equal("Chassis/PDB_0/Sensors/HSC_0_Pwr"))
			Expect(res.Fields).To(HaveKeyWithValue("ReadingUnits", "W"))
		})

		It("should read the manager interfaces", func() {
			ids, err := r.GetManagerEthernetInterfaces(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(Equal([]string{"eth0"}))
			iface, err := r.GetManagerEthernetInterface(ctx, "eth0")
			Expect(err).NotTo(HaveOccurred())
			Expect(iface.MACAddress).To(Equal("5a:c2:0b:1e:44:01"))
		})
	})
})
