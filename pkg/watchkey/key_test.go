// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package watchkey

import (
	"context"
	"errors"
	"time"

	. "github.com/black-desk/lib/go/gomega-helper"
	"github.com/black-desk/sshwatch/pkg/types"
	"github.com/gobwas/glob"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Watch key", func() {
	var (
		svc      *fakeService
		provider *fakeProvider
		ctx      context.Context
	)

	BeforeEach(func() {
		svc = &fakeService{}
		provider = &fakeProvider{}
		ctx = context.Background()
	})

	newKey := func(opts ...Opt) *Key {
		k, err := New(append([]Opt{
			WithService(svc),
			WithStatProvider(provider),
			WithDir("/d"),
			WithInterval(time.Millisecond),
		}, opts...)...)
		Expect(err).To(Succeed())
		return k
	}

	Context("created without required options", func() {
		It("should fail without a service", func() {
			_, err := New(WithStatProvider(provider), WithDir("/d"))
			Expect(err).To(MatchErr(ErrServiceMissing))
		})

		It("should fail without a stat provider", func() {
			_, err := New(WithService(svc), WithDir("/d"))
			Expect(err).To(MatchErr(ErrStatProviderMissing))
		})

		It("should fail without a directory", func() {
			_, err := New(WithService(svc), WithStatProvider(provider))
			Expect(err).To(MatchErr(ErrDirMissing))
		})

		It("should reject intervals below 1ms", func() {
			_, err := New(
				WithService(svc), WithStatProvider(provider), WithDir("/d"),
				WithInterval(time.Microsecond),
			)
			Expect(err).To(MatchErr(ErrInvalidInterval))
		})
	})

	Context("created with default options", func() {
		var k *Key

		BeforeEach(func() {
			k, _ = New(WithService(svc), WithStatProvider(provider), WithDir("/d"))
		})

		It("should be ready, valid and watch every kind", func() {
			Expect(k).NotTo(BeNil())
			Expect(k.State()).To(Equal(StateReady))
			Expect(k.IsValid()).To(BeTrue())
			Expect(k.Kinds()).To(Equal(types.AllKinds))
			Expect(k.Watchable()).To(Equal("/d"))
			Expect(k.ID()).NotTo(BeEmpty())
		})
	})

	Context("with an empty prior snapshot and a directory {a, b}", func() {
		var k *Key

		BeforeEach(func() {
			k = newKey()
			provider.set(map[string]types.Attributes{
				"/d/a": attrs(10, 100),
				"/d/b": attrs(20, 200),
			})
			k.tick(ctx)
		})

		It("should report both entries as created and signal once", func() {
			Expect(k.State()).To(Equal(StateSignalled))
			Expect(svc.enqueueCount()).To(Equal(1))

			Expect(k.PollEvents()).To(ConsistOf(
				event(types.EventKindCreate, "/d/a", 1),
				event(types.EventKindCreate, "/d/b", 1),
			))
			Expect(k.State()).To(Equal(StateSignalled))

			Expect(k.Reset()).To(BeTrue())
			Expect(k.State()).To(Equal(StateReady))
			Expect(svc.enqueueCount()).To(Equal(1))
		})

		It("should return nothing on a second poll", func() {
			Expect(k.PollEvents()).To(HaveLen(2))
			Expect(k.PollEvents()).To(BeEmpty())
		})
	})

	Context("with a prior snapshot {a, b}", func() {
		var k *Key

		BeforeEach(func() {
			k = newKey(WithPrior(map[string]types.Attributes{
				"/d/a": attrs(10, 100),
				"/d/b": attrs(20, 200),
			}))
		})

		It("should report a modified and a created entry", func() {
			provider.set(map[string]types.Attributes{
				"/d/a": attrs(10, 100),
				"/d/b": attrs(25, 200),
				"/d/c": attrs(5, 300),
			})
			k.tick(ctx)

			Expect(k.PollEvents()).To(ConsistOf(
				event(types.EventKindModify, "/d/b", 1),
				event(types.EventKindCreate, "/d/c", 1),
			))
		})

		It("should report nothing and stay ready when nothing changed", func() {
			provider.set(map[string]types.Attributes{
				"/d/a": attrs(10, 100),
				"/d/b": attrs(20, 200),
			})
			k.tick(ctx)

			Expect(k.PollEvents()).To(BeEmpty())
			Expect(k.State()).To(Equal(StateReady))
			Expect(svc.enqueueCount()).To(BeZero())
		})

		It("should report deleted entries", func() {
			provider.set(map[string]types.Attributes{})
			k.tick(ctx)

			Expect(k.PollEvents()).To(ConsistOf(
				event(types.EventKindDelete, "/d/a", 1),
				event(types.EventKindDelete, "/d/b", 1),
			))
		})

		It("should not be changed by a seed map mutated later", func() {
			seed := map[string]types.Attributes{"/d/a": attrs(10, 100)}
			k2 := newKey(WithPrior(seed))
			seed["/d/z"] = attrs(1, 1)

			provider.set(map[string]types.Attributes{"/d/a": attrs(10, 100)})
			k2.tick(ctx)
			Expect(k2.PollEvents()).To(BeEmpty())
		})
	})

	Context("with a prior snapshot {a} modified in three consecutive polls", func() {
		var k *Key

		BeforeEach(func() {
			k = newKey(WithPrior(map[string]types.Attributes{
				"/d/a": attrs(10, 100),
			}))

			for _, mtime := range []int64{101, 102, 103} {
				provider.set(map[string]types.Attributes{"/d/a": attrs(10, mtime)})
				k.tick(ctx)
			}
		})

		It("should coalesce into one modify with count 3", func() {
			Expect(k.PollEvents()).To(ConsistOf(event(types.EventKindModify, "/d/a", 3)))
		})

		It("should have enqueued the key only once", func() {
			Expect(svc.enqueueCount()).To(Equal(1))
		})
	})

	Context("when the stat provider fails", func() {
		var k *Key

		BeforeEach(func() {
			k = newKey(WithPrior(map[string]types.Attributes{
				"/d/a": attrs(10, 100),
			}))
			provider.fail(errors.New("connection reset"))
			k.tick(ctx)
		})

		It("should record nothing", func() {
			Expect(k.PollEvents()).To(BeEmpty())
			Expect(k.State()).To(Equal(StateReady))
		})

		It("should keep the prior snapshot for the next poll", func() {
			provider.set(map[string]types.Attributes{"/d/a": attrs(10, 100)})
			k.tick(ctx)
			Expect(k.PollEvents()).To(BeEmpty())
		})
	})

	Context("watching only deletes", func() {
		var k *Key

		BeforeEach(func() {
			k = newKey(
				WithKinds(types.NewKindSet(types.EventKindDelete)),
				WithPrior(map[string]types.Attributes{
					"/d/a": attrs(10, 100),
					"/d/b": attrs(20, 200),
				}),
			)
			provider.set(map[string]types.Attributes{
				"/d/a": attrs(11, 100),
				"/d/c": attrs(1, 1),
			})
			k.tick(ctx)
		})

		It("should record deletes only", func() {
			Expect(k.PollEvents()).To(ConsistOf(event(types.EventKindDelete, "/d/b", 1)))
		})

		It("should reject an empty kind set", func() {
			_, err := New(
				WithService(svc), WithStatProvider(provider), WithDir("/d"),
				WithKinds(0),
			)
			Expect(err).To(MatchErr(ErrNoKinds))
		})
	})

	Context("watching creates and deletes of a recreated entry", func() {
		var k *Key

		BeforeEach(func() {
			k = newKey(
				WithKinds(types.NewKindSet(types.EventKindCreate, types.EventKindDelete)),
				WithPrior(map[string]types.Attributes{"/d/a": attrs(10, 100)}),
			)
			provider.set(map[string]types.Attributes{})
			k.tick(ctx)
			provider.set(map[string]types.Attributes{"/d/a": attrs(11, 101)})
			k.tick(ctx)
		})

		It("should report nothing", func() {
			Expect(k.PollEvents()).To(BeEmpty())
		})

		It("should become ready on reset", func() {
			k.PollEvents()
			Expect(k.Reset()).To(BeTrue())
			Expect(k.State()).To(Equal(StateReady))
			Expect(svc.enqueueCount()).To(Equal(1))
		})
	})

	Context("watching creates and modifies of a modified, deleted and recreated entry", func() {
		var k *Key

		BeforeEach(func() {
			k = newKey(
				WithKinds(types.NewKindSet(types.EventKindCreate, types.EventKindModify)),
				WithPrior(map[string]types.Attributes{"/d/a": attrs(10, 100)}),
			)
			for _, entries := range []map[string]types.Attributes{
				{"/d/a": attrs(11, 100)},
				{},
				{"/d/a": attrs(12, 100)},
			} {
				provider.set(entries)
				k.tick(ctx)
				expectDisjoint(k.buffer)
			}
		})

		It("should report a single modify", func() {
			Expect(k.PollEvents()).To(ConsistOf(event(types.EventKindModify, "/d/a", 1)))
		})
	})

	Context("polling a provider that returns the same map every time", func() {
		var k *Key

		BeforeEach(func() {
			provider.shared = true
			provider.set(map[string]types.Attributes{
				"/d/a": attrs(10, 100),
				"/d/b": attrs(20, 200),
			})
			k = newKey()
			k.tick(ctx)
			k.PollEvents()
			k.tick(ctx)
		})

		It("should not modify the returned map", func() {
			Expect(provider.entries).To(HaveLen(2))
		})

		It("should report nothing on later polls", func() {
			Expect(k.PollEvents()).To(BeEmpty())
			k.tick(ctx)
			Expect(k.PollEvents()).To(BeEmpty())
		})
	})

	Context("ignoring swap files", func() {
		var k *Key

		BeforeEach(func() {
			k = newKey(WithIgnore(glob.MustCompile("*.swp", '/')))
			provider.set(map[string]types.Attributes{
				"/d/a":      attrs(10, 100),
				"/d/.a.swp": attrs(1, 100),
			})
			k.tick(ctx)
		})

		It("should not report ignored entries", func() {
			Expect(k.PollEvents()).To(ConsistOf(event(types.EventKindCreate, "/d/a", 1)))
		})

		It("should not report ignored entries disappearing", func() {
			k.PollEvents()
			provider.set(map[string]types.Attributes{"/d/a": attrs(10, 100)})
			k.tick(ctx)
			Expect(k.PollEvents()).To(BeEmpty())
		})
	})

	Context("drained and reset between two bursts", func() {
		var k *Key

		BeforeEach(func() {
			k = newKey()

			provider.set(map[string]types.Attributes{"/d/a": attrs(10, 100)})
			k.tick(ctx)

			Expect(k.PollEvents()).To(ConsistOf(event(types.EventKindCreate, "/d/a", 1)))
			Expect(k.Reset()).To(BeTrue())
			Expect(k.State()).To(Equal(StateReady))
		})

		It("should signal again on the second burst", func() {
			provider.set(map[string]types.Attributes{"/d/a": attrs(10, 101)})
			k.tick(ctx)

			Expect(k.State()).To(Equal(StateSignalled))
			Expect(svc.enqueueCount()).To(Equal(2))
		})

		It("should re-queue on reset when events arrived after the drain", func() {
			provider.set(map[string]types.Attributes{"/d/a": attrs(10, 101)})
			k.tick(ctx)
			Expect(svc.enqueueCount()).To(Equal(2))

			// The consumer took the key and drained it, then more changes arrived.
			Expect(k.PollEvents()).To(ConsistOf(event(types.EventKindModify, "/d/a", 1)))
			provider.set(map[string]types.Attributes{"/d/a": attrs(10, 102)})
			k.tick(ctx)
			Expect(svc.enqueueCount()).To(Equal(2))

			Expect(k.Reset()).To(BeTrue())
			Expect(k.State()).To(Equal(StateSignalled))
			Expect(svc.enqueueCount()).To(Equal(3))
			Expect(k.PollEvents()).To(ConsistOf(event(types.EventKindModify, "/d/a", 1)))
		})
	})

	Context("cancelled with events buffered", func() {
		var k *Key

		BeforeEach(func() {
			k = newKey()
			provider.set(map[string]types.Attributes{"/d/a": attrs(10, 100)})
			k.tick(ctx)

			k.Cancel()
		})

		It("should be invalid", func() {
			Expect(k.IsValid()).To(BeFalse())
		})

		It("should unregister once however often it is cancelled", func() {
			k.Cancel()
			k.Cancel()
			Expect(svc.unregisterCount()).To(Equal(1))
		})

		It("should still drain the buffered events", func() {
			Expect(k.PollEvents()).To(ConsistOf(event(types.EventKindCreate, "/d/a", 1)))
			Expect(k.PollEvents()).To(BeEmpty())
		})

		It("should refuse to reset", func() {
			Expect(k.Reset()).To(BeFalse())
		})

		It("should not record new changes", func() {
			k.PollEvents()
			provider.set(map[string]types.Attributes{})
			k.tick(ctx)
			Expect(k.PollEvents()).To(BeEmpty())
		})
	})

	Context("owned by a closed service", func() {
		It("should be invalid", func() {
			k := newKey()
			svc.closed.Store(true)
			Expect(k.IsValid()).To(BeFalse())
			Expect(k.Reset()).To(BeFalse())
		})
	})

	Context("running", func() {
		var (
			k    *Key
			errs chan error
		)

		BeforeEach(func() {
			k = newKey()
			provider.set(map[string]types.Attributes{"/d/a": attrs(10, 100)})
			errs = make(chan error, 1)
		})

		It("should poll until cancelled", func() {
			go func() { errs <- k.Run(ctx) }()

			Eventually(k.State).Should(Equal(StateSignalled))
			Eventually(provider.callCount).Should(BeNumerically(">", 2))

			k.Cancel()
			Eventually(errs).Should(Receive(BeNil()))
			Expect(k.PollEvents()).To(ConsistOf(event(types.EventKindCreate, "/d/a", 1)))
		})

		It("should stop without error once the service is closed", func() {
			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			go func() { errs <- k.Run(runCtx) }()
			Eventually(provider.callCount).Should(BeNumerically(">", 0))

			svc.closed.Store(true)
			cancel()
			Eventually(errs).Should(Receive(BeNil()))
		})

		It("should return the context error if stopped while valid", func() {
			runCtx, cancel := context.WithCancel(ctx)

			go func() { errs <- k.Run(runCtx) }()
			Eventually(provider.callCount).Should(BeNumerically(">", 0))

			cancel()
			var err error
			Eventually(errs).Should(Receive(&err))
			Expect(err).To(MatchErr(context.Canceled))
		})

		It("should not return for a failing provider", func() {
			provider.fail(errors.New("broken pipe"))
			go func() { errs <- k.Run(ctx) }()

			Eventually(provider.callCount).Should(BeNumerically(">", 3))
			Consistently(errs, 20*time.Millisecond).ShouldNot(Receive())
			k.Cancel()
			Eventually(errs).Should(Receive(BeNil()))
		})
	})
})

var _ = Describe("Watch key seeded with ignored entries", func() {
	It("should not report them as deleted", func() {
		svc := &fakeService{}
		provider := &fakeProvider{}
		k, err := New(
			WithService(svc),
			WithStatProvider(provider),
			WithDir("/d"),
			WithIgnore(glob.MustCompile("*.tmp", '/')),
			WithPrior(map[string]types.Attributes{
				"/d/a":     attrs(10, 100),
				"/d/x.tmp": attrs(1, 1),
			}),
		)
		Expect(err).To(Succeed())

		provider.set(map[string]types.Attributes{"/d/a": attrs(10, 100)})
		k.tick(context.Background())
		Expect(k.PollEvents()).To(BeEmpty())
	})
})
