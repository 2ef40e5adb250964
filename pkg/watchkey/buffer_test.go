// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package watchkey

import (
	"math/rand"

	. "github.com/black-desk/lib/go/ginkgo-helper"
	"github.com/black-desk/sshwatch/pkg/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Event buffer", func() {
	var b *buffer

	BeforeEach(func() {
		b = newBuffer(types.AllKinds)
	})

	It("should record a create once", func() {
		Expect(b.observeCreate("/d/a")).To(BeTrue())
		Expect(b.observeCreate("/d/a")).To(BeFalse())
		Expect(b.drain()).To(ConsistOf(event(types.EventKindCreate, "/d/a", 1)))
	})

	It("should record a delete once", func() {
		Expect(b.observeDelete("/d/a")).To(BeTrue())
		Expect(b.observeDelete("/d/a")).To(BeFalse())
		Expect(b.drain()).To(ConsistOf(event(types.EventKindDelete, "/d/a", 1)))
	})

	It("should count modifications", func() {
		Expect(b.observeModify("/d/a")).To(BeTrue())
		Expect(b.observeModify("/d/a")).To(BeTrue())
		Expect(b.observeModify("/d/a")).To(BeTrue())
		Expect(b.drain()).To(ConsistOf(event(types.EventKindModify, "/d/a", 3)))
	})

	It("should be empty after drain", func() {
		b.observeCreate("/d/a")
		b.observeDelete("/d/b")
		b.observeModify("/d/c")

		Expect(b.drain()).To(HaveLen(3))
		Expect(b.len()).To(BeZero())
		Expect(b.creates).To(BeEmpty())
		Expect(b.deletes).To(BeEmpty())
		Expect(b.modifies).To(BeEmpty())
		Expect(b.drain()).To(BeEmpty())
	})

	It("should not share events with drained slices", func() {
		b.observeModify("/d/a")
		first := b.drain()
		b.observeModify("/d/a")
		b.observeModify("/d/a")

		Expect(first).To(ConsistOf(event(types.EventKindModify, "/d/a", 1)))
		Expect(b.drain()).To(ConsistOf(event(types.EventKindModify, "/d/a", 2)))
	})

	ContextTable("with a pending %s", func(
		pending string, setup func(), observe func() bool, expect []types.Event,
	) {
		BeforeEach(func() {
			setup()
			observe()
		})

		It("should fold the observation into the pending event", func() {
			Expect(b.drain()).To(ConsistOf(expect))
		})
	},
		ContextTableEntry("DELETE",
			func() { b.observeDelete("/d/a") },
			func() bool { return b.observeCreate("/d/a") },
			[]types.Event{event(types.EventKindModify, "/d/a", 1)},
		).WithFmt("DELETE, then a CREATE"),
		ContextTableEntry("CREATE",
			func() { b.observeCreate("/d/a") },
			func() bool { return b.observeDelete("/d/a") },
			[]types.Event{},
		).WithFmt("CREATE, then a DELETE"),
		ContextTableEntry("MODIFY",
			func() { b.observeModify("/d/a") },
			func() bool { return b.observeDelete("/d/a") },
			[]types.Event{event(types.EventKindDelete, "/d/a", 1)},
		).WithFmt("MODIFY, then a DELETE"),
		ContextTableEntry("CREATE",
			func() { b.observeCreate("/d/a") },
			func() bool { return b.observeModify("/d/a") },
			[]types.Event{event(types.EventKindCreate, "/d/a", 1)},
		).WithFmt("CREATE, then a MODIFY"),
		ContextTableEntry("DELETE",
			func() { b.observeDelete("/d/a") },
			func() bool { return b.observeModify("/d/a") },
			[]types.Event{event(types.EventKindModify, "/d/a", 1)},
		).WithFmt("DELETE, then a MODIFY"),
		ContextTableEntry("MODIFY",
			func() { b.observeModify("/d/a") },
			func() bool { return b.observeCreate("/d/a") },
			[]types.Event{event(types.EventKindModify, "/d/a", 1)},
		).WithFmt("MODIFY, then a CREATE"),
	)

	It("should keep the three maps disjoint under any observation sequence", func() {
		r := rand.New(rand.NewSource(42))
		paths := []string{"/d/a", "/d/b", "/d/c", "/d/d"}

		for i := 0; i < 2000; i++ {
			p := paths[r.Intn(len(paths))]
			switch r.Intn(3) {
			case 0:
				b.observeCreate(p)
			case 1:
				b.observeDelete(p)
			case 2:
				b.observeModify(p)
			}

			expectDisjoint(b)

			if r.Intn(50) == 0 {
				b.drain()
			}
		}
	})

	Context("restricted to creates and deletes", func() {
		BeforeEach(func() {
			b = newBuffer(types.NewKindSet(
				types.EventKindCreate, types.EventKindDelete,
			))
		})

		It("should hide the modify folded from a delete and a create", func() {
			Expect(b.observeDelete("/d/a")).To(BeTrue())
			Expect(b.observeCreate("/d/a")).To(BeFalse())

			Expect(b.len()).To(BeZero())
			Expect(b.drain()).To(BeEmpty())
		})

		It("should report a delete replacing a hidden modify", func() {
			Expect(b.observeModify("/d/a")).To(BeFalse())
			Expect(b.len()).To(BeZero())

			Expect(b.observeDelete("/d/a")).To(BeTrue())
			Expect(b.drain()).To(ConsistOf(event(types.EventKindDelete, "/d/a", 1)))
		})
	})

	Context("restricted to creates and modifies", func() {
		BeforeEach(func() {
			b = newBuffer(types.NewKindSet(
				types.EventKindCreate, types.EventKindModify,
			))
		})

		It("should fold a hidden delete and a create into one modify", func() {
			Expect(b.observeModify("/d/a")).To(BeTrue())
			Expect(b.observeDelete("/d/a")).To(BeFalse())
			Expect(b.len()).To(BeZero())
			Expect(b.observeCreate("/d/a")).To(BeTrue())

			expectDisjoint(b)
			Expect(b.drain()).To(ConsistOf(event(types.EventKindModify, "/d/a", 1)))
		})
	})

	It("should keep the maps disjoint under any kind restriction", func() {
		r := rand.New(rand.NewSource(7))
		paths := []string{"/d/a", "/d/b"}

		for kinds := types.KindSet(1); kinds <= types.AllKinds; kinds++ {
			b = newBuffer(kinds)
			for i := 0; i < 500; i++ {
				p := paths[r.Intn(len(paths))]
				switch r.Intn(3) {
				case 0:
					b.observeCreate(p)
				case 1:
					b.observeDelete(p)
				case 2:
					b.observeModify(p)
				}

				expectDisjoint(b)
				if r.Intn(20) != 0 {
					continue
				}
				for _, e := range b.drain() {
					Expect(kinds.Has(e.Kind)).To(BeTrue())
				}
			}
		}
	})
})
