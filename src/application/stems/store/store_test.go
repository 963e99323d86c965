package store_test

import (
	"fmt"
	"strings"

	"stem-session/src/application/stems/entity"
	"stem-session/src/application/stems/store"

	"github.com/gopxl/beep/v2"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func makeStemBuffer(numSamples int) entity.StemBuffer {
	format := beep.Format{
		SampleRate:  44100,
		NumChannels: 2,
		Precision:   2,
	}

	return entity.NewStemBuffer(format, beep.Silence(numSamples))
}

var _ = Describe("Store", func() {
	var (
		stemStore *store.Store

		firstSet  []store.Entry
		secondSet []store.Entry
	)

	BeforeEach(func() {
		stemStore = store.NewStore()

		firstSet = []store.Entry{
			{Name: "song_stem_1", Buffer: makeStemBuffer(128)},
			{Name: "song_stem_2", Buffer: makeStemBuffer(256)},
		}

		secondSet = []store.Entry{
			{Name: "ballad_stem_1", Buffer: makeStemBuffer(64)},
			{Name: "ballad_stem_2", Buffer: makeStemBuffer(64)},
			{Name: "ballad_stem_3", Buffer: makeStemBuffer(64)},
		}
	})

	Describe("A fresh store", func() {
		It("has no names", func() {
			Expect(stemStore.Names()).To(BeEmpty())
		})

		It("is at generation zero", func() {
			Expect(stemStore.Generation()).To(BeZero())
		})

		It("reports NotFound for any name", func() {
			_, err := stemStore.Get("song_stem_1")
			Expect(err).To(MatchError(store.NotFound))
		})
	})

	Describe("After one replacement", func() {
		BeforeEach(func() {
			Expect(stemStore.Replace(firstSet)).To(Succeed())
		})

		It("bumps the generation", func() {
			Expect(stemStore.Generation()).To(Equal(uint64(1)))
		})

		It("lists the names in the installed order", func() {
			Expect(stemStore.Names()).To(Equal([]string{"song_stem_1", "song_stem_2"}))
		})

		It("returns the installed buffer", func() {
			stem, err := stemStore.Get("song_stem_2")
			Expect(err).NotTo(HaveOccurred())
			Expect(stem.Len()).To(Equal(256))
		})

		It("still reports NotFound for unknown names", func() {
			_, err := stemStore.Get("song_stem_3")
			Expect(err).To(MatchError(store.NotFound))
		})

		Describe("After a second replacement", func() {
			BeforeEach(func() {
				Expect(stemStore.Replace(secondSet)).To(Succeed())
			})

			It("bumps the generation again", func() {
				Expect(stemStore.Generation()).To(Equal(uint64(2)))
			})

			It("drops every name of the old generation", func() {
				_, err := stemStore.Get("song_stem_1")
				Expect(err).To(MatchError(store.NotFound))

				_, err = stemStore.Get("song_stem_2")
				Expect(err).To(MatchError(store.NotFound))
			})

			It("serves only the new set", func() {
				Expect(stemStore.Names()).To(Equal([]string{"ballad_stem_1", "ballad_stem_2", "ballad_stem_3"}))
			})
		})
	})

	Describe("Replacing with duplicate names", func() {
		BeforeEach(func() {
			Expect(stemStore.Replace(firstSet)).To(Succeed())
		})

		It("rejects the set and leaves the store untouched", func() {
			badSet := []store.Entry{
				{Name: "dupe_stem_1", Buffer: makeStemBuffer(8)},
				{Name: "dupe_stem_1", Buffer: makeStemBuffer(8)},
			}

			Expect(stemStore.Replace(badSet)).NotTo(Succeed())
			Expect(stemStore.Generation()).To(Equal(uint64(1)))
			Expect(stemStore.Names()).To(Equal([]string{"song_stem_1", "song_stem_2"}))
		})
	})

	Describe("Concurrent replacement and reads", func() {
		It("never exposes a view mixing two generations", func() {
			stem := makeStemBuffer(8)

			writerDone := make(chan struct{})
			go func() {
				defer GinkgoRecover()
				defer close(writerDone)

				for i := 0; i < 200; i++ {
					entries := []store.Entry{
						{Name: fmt.Sprintf("take%d_stem_1", i), Buffer: stem},
						{Name: fmt.Sprintf("take%d_stem_2", i), Buffer: stem},
					}
					Expect(stemStore.Replace(entries)).To(Succeed())
				}
			}()

			for done := false; !done; {
				select {
				case <-writerDone:
					done = true
				default:
				}

				names := stemStore.Names()
				if len(names) == 0 {
					// generation zero, nothing installed yet
					continue
				}

				Expect(names).To(HaveLen(2))
				prefix := strings.SplitN(names[0], "_stem_", 2)[0]
				for _, name := range names {
					Expect(name).To(HavePrefix(prefix + "_stem_"))
				}
			}
		})
	})
})
