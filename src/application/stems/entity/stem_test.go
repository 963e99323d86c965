package entity_test

import (
	"time"

	"stem-session/src/application/stems/entity"

	"github.com/gopxl/beep/v2"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Stem naming", func() {
	It("derives names from the basename and a 1-based index", func() {
		Expect(entity.StemName("song", 1)).To(Equal("song_stem_1"))
		Expect(entity.StemName("song", 4)).To(Equal("song_stem_4"))
	})

	It("strips the directory and extension off the audio path", func() {
		Expect(entity.BasenameFromPath("/music/inbox/song.wav")).To(Equal("song"))
		Expect(entity.BasenameFromPath("ballad.mp3")).To(Equal("ballad"))
		Expect(entity.BasenameFromPath("/music/album.name/track.flac")).To(Equal("track"))
	})
})

var _ = Describe("StemBuffer", func() {
	var (
		format beep.Format
		stem   entity.StemBuffer
	)

	BeforeEach(func() {
		format = beep.Format{
			SampleRate:  44100,
			NumChannels: 2,
			Precision:   2,
		}

		stem = entity.NewStemBuffer(format, beep.Silence(44100))
	})

	It("derives its duration from the sample rate", func() {
		Expect(stem.Duration()).To(Equal(time.Second))
	})

	It("reports its length in samples", func() {
		Expect(stem.Len()).To(Equal(44100))
	})

	It("hands out independent streamers starting at sample 0", func() {
		first := stem.Streamer()
		samples := make([][2]float64, 512)
		n, ok := first.Stream(samples)
		Expect(ok).To(BeTrue())
		Expect(n).To(Equal(512))

		// a second streamer is unaffected by the first being consumed
		second := stem.Streamer()
		Expect(second.Position()).To(BeZero())
		Expect(second.Len()).To(Equal(44100))
	})
})
