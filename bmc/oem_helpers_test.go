// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package bmc

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NVIDIA/libredfish/bmc/common"
)

var _ = Describe("putFirst", func() {
	DescribeTable("should move the entry to the front and keep the others in order",
		func(order []string, i int, expected []string) {
			before := slices.Clone(order)
			Expect(putFirst(order, i)).To(Equal(expected))
			Expect(order).To(Equal(before))
		},
		Entry("first entry", []string{"Boot0001", "Boot0002", "Boot0003"}, 0, []string{"Boot0001", "Boot0002", "Boot0003"}),
		Entry("middle entry", []string{"Boot0001", "Boot0002", "Boot0003"}, 1, []string{"Boot0002", "Boot0001", "Boot0003"}),
		Entry("last entry", []string{"Boot0001", "Boot0002", "Boot0003"}, 2, []string{"Boot0003", "Boot0001", "Boot0002"}),
		Entry("single entry", []string{"Boot0001"}, 0, []string{"Boot0001"}),
	)

	It("should not share memory with the input", func() {
		order := []string{"Boot0001", "Boot0002", "Boot0003"}
		out := putFirst(order, 2)
		out[1] = "Boot0009"
		Expect(order).To(Equal([]string{"Boot0001", "Boot0002", "Boot0003"}))
		order[0] = "Boot0008"
		Expect(out).To(Equal([]string{"Boot0003", "Boot0009", "Boot0002"}))
	})

	It("should hold for generated boot orders", func() {
		rng := rand.New(rand.NewPCG(7, 11))
		for range 500 {
			order := make([]string, 1+rng.IntN(16))
			for j := range order {
				order[j] = fmt.Sprintf("Boot%04X", j)
			}
			rng.Shuffle(len(order), func(a, b int) { order[a], order[b] = order[b], order[a] })
			before := slices.Clone(order)
			i := rng.IntN(len(order))

			out := putFirst(order, i)
			Expect(out).To(HaveLen(len(order)))
			Expect(out[0]).To(Equal(order[i]))
			Expect(out[1:]).To(Equal(slices.Delete(slices.Clone(order), i, i+1)))
			Expect(checkPermutation(order, out)).To(Succeed())
			Expect(order).To(Equal(before))
		}
	})
})

var _ = Describe("bootOrderWithFirst", func() {
	var (
		ctx  context.Context
		mock *mockBMC
		r    *RedfishBMC
	)

	BeforeEach(func() {
		ctx = context.Background()
		mock = newMockBMC()
		b, err := NewBMCForVendor(ctx, mock.client, VendorStandard)
		Expect(err).NotTo(HaveOccurred())
		r = b.(*RedfishBMC)
	})

	setBootOrder := func(order ...string) {
		_, err := mock.client.Patch(ctx, "Systems/System_0", map[string]any{
			"Boot": map[string]any{"BootOrder": order},
		})
		Expect(err).NotTo(HaveOccurred())
	}

	DescribeTable("should put the matching option first wherever it sits",
		func(order []string, expected []string) {
			setBootOrder(order...)
			reordered, system, err := r.bootOrderWithFirst(ctx, displayNamePrefix("ubuntu"))
			Expect(err).NotTo(HaveOccurred())
			Expect(reordered).To(Equal(expected))
			Expect(system.Boot.BootOrder).To(Equal(order))
		},
		Entry("already first", []string{"Boot0003", "Boot0001", "Boot0002"}, []string{"Boot0003", "Boot0001", "Boot0002"}),
		Entry("in the middle", []string{"Boot0002", "Boot0003", "Boot0001"}, []string{"Boot0003", "Boot0002", "Boot0001"}),
		Entry("last", []string{"Boot0001", "Boot0002", "Boot0003"}, []string{"Boot0003", "Boot0001", "Boot0002"}),
		Entry("the only entry", []string{"Boot0003"}, []string{"Boot0003"}),
	)

	It("should report an order without a match as not found", func() {
		setBootOrder("Boot0001", "Boot0002")
		_, _, err := r.bootOrderWithFirst(ctx, displayNamePrefix("ubuntu"))
		Expect(common.IsNotFound(err)).To(BeTrue())
	})
})
