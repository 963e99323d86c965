package events_test

import (
	"stem-session/src/application/events"
	"stem-session/src/application/integration_test/dummy"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ChannelPublisher", func() {
	It("delivers events in order", func() {
		publisher := events.NewChannelPublisher(4)

		Expect(publisher.Publish(events.ExtractionStarted{AudioPath: "a.wav"})).To(Succeed())
		Expect(publisher.Publish(events.ExtractionStarted{AudioPath: "b.wav"})).To(Succeed())

		first := <-publisher.Events()
		Expect(first.(events.ExtractionStarted).AudioPath).To(Equal("a.wav"))

		second := <-publisher.Events()
		Expect(second.(events.ExtractionStarted).AudioPath).To(Equal("b.wav"))
	})

	It("drops the oldest event instead of blocking when full", func() {
		publisher := events.NewChannelPublisher(2)

		Expect(publisher.Publish(events.ExtractionStarted{AudioPath: "a.wav"})).To(Succeed())
		Expect(publisher.Publish(events.ExtractionStarted{AudioPath: "b.wav"})).To(Succeed())
		Expect(publisher.Publish(events.ExtractionStarted{AudioPath: "c.wav"})).To(Succeed())

		first := <-publisher.Events()
		Expect(first.(events.ExtractionStarted).AudioPath).To(Equal("b.wav"))
	})
})

var _ = Describe("MultiPublisher", func() {
	It("delivers to every publisher even when one fails", func() {
		broken := dummy.NewDummyPublisher()
		broken.Unavailable = true
		working := dummy.NewDummyPublisher()

		multi := events.NewMultiPublisher(broken, working)

		err := multi.Publish(events.ExtractionStarted{AudioPath: "a.wav"})
		Expect(err).To(HaveOccurred())
		Expect(working.Events()).To(HaveLen(1))
	})
})
