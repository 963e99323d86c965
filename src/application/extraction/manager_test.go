package extraction_test

import (
	"sync"
	"sync/atomic"
	"time"

	"stem-session/src/application/extraction"
	"stem-session/src/application/integration_test/dummy"
	"stem-session/src/application/separation"
	"stem-session/src/application/stems/entity"
	"stem-session/src/application/stems/store"

	"github.com/gopxl/beep/v2"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func makeStems(count int) []entity.StemBuffer {
	format := beep.Format{
		SampleRate:  44100,
		NumChannels: 2,
		Precision:   2,
	}

	stems := make([]entity.StemBuffer, 0, count)
	for i := 0; i < count; i++ {
		stems = append(stems, entity.NewStemBuffer(format, beep.Silence(16)))
	}

	return stems
}

type doneRecorder struct {
	mu      sync.Mutex
	called  bool
	entries []store.Entry
	err     error
}

func (d *doneRecorder) record(entries []store.Entry, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.called = true
	d.entries = entries
	d.err = err
}

func (d *doneRecorder) wasCalled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.called
}

func (d *doneRecorder) result() ([]store.Entry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.entries, d.err
}

var _ = Describe("Extraction manager", func() {
	var (
		dummyBackend *dummy.Backend
		manager      *extraction.Manager

		progressTicks int64
		recorder      *doneRecorder

		onProgress func(elapsed time.Duration)
	)

	BeforeEach(func() {
		dummyBackend = dummy.NewDummyBackend(makeStems(2))
		manager = extraction.NewManager(dummyBackend)

		progressTicks = 0
		recorder = &doneRecorder{}
		onProgress = func(time.Duration) {
			atomic.AddInt64(&progressTicks, 1)
		}
	})

	Describe("Happy path", func() {
		It("names the stems after the source file in output order", func() {
			err := manager.Start("/music/cool_song.wav", onProgress, recorder.record)
			Expect(err).NotTo(HaveOccurred())

			Eventually(recorder.wasCalled).Should(BeTrue())

			entries, extractionErr := recorder.result()
			Expect(extractionErr).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].Name).To(Equal("cool_song_stem_1"))
			Expect(entries[1].Name).To(Equal("cool_song_stem_2"))
		})
	})

	Describe("Single job slot", func() {
		BeforeEach(func() {
			dummyBackend.Gate = make(chan struct{})
		})

		It("rejects a second start while one is running", func() {
			err := manager.Start("/music/cool_song.wav", onProgress, recorder.record)
			Expect(err).NotTo(HaveOccurred())

			err = manager.Start("/music/other_song.wav", onProgress, recorder.record)
			Expect(err).To(MatchError(extraction.AlreadyRunning))

			close(dummyBackend.Gate)
			Eventually(recorder.wasCalled).Should(BeTrue())
		})

		It("frees the slot after the job resolves", func() {
			err := manager.Start("/music/cool_song.wav", onProgress, recorder.record)
			Expect(err).NotTo(HaveOccurred())

			close(dummyBackend.Gate)
			Eventually(recorder.wasCalled).Should(BeTrue())
			Eventually(manager.Running).Should(BeFalse())

			err = manager.Start("/music/other_song.wav", onProgress, recorder.record)
			Expect(err).NotTo(HaveOccurred())
		})

		It("ticks progress while the model runs", func() {
			err := manager.Start("/music/cool_song.wav", onProgress, recorder.record)
			Expect(err).NotTo(HaveOccurred())

			Eventually(func() int64 {
				return atomic.LoadInt64(&progressTicks)
			}).Should(BeNumerically(">", 0))

			close(dummyBackend.Gate)
			Eventually(recorder.wasCalled).Should(BeTrue())
		})
	})

	Describe("Backend failure", func() {
		BeforeEach(func() {
			dummyBackend.FailWith = separation.ModelError
		})

		It("reports the failure without entries", func() {
			err := manager.Start("/music/cool_song.wav", onProgress, recorder.record)
			Expect(err).NotTo(HaveOccurred())

			Eventually(recorder.wasCalled).Should(BeTrue())

			entries, extractionErr := recorder.result()
			Expect(entries).To(BeEmpty())
			Expect(extractionErr).To(MatchError(separation.ModelError))
		})
	})
})
