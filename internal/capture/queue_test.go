package capture_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bounce/internal/capture"
)

func drain(q *capture.Queue) []int {
	var got []int
	for f := range q.Out() {
		got = append(got, f.Index)
	}
	return got
}

var _ = Describe("Queue", func() {
	It("accepts frames without a consumer", func() {
		q := capture.NewQueue()
		for i := 0; i < 500; i++ {
			Expect(q.Push(capture.Frame{Index: i})).To(Succeed())
		}
		Expect(q.Len()).To(Equal(500))
		q.Close()
		Expect(drain(q)).To(HaveLen(500))
		Expect(q.Len()).To(BeZero())
	})

	It("delivers in push order and drains after close", func() {
		q := capture.NewQueue()
		for i := 0; i < 10; i++ {
			Expect(q.Push(capture.Frame{Index: i})).To(Succeed())
		}
		q.Close()
		Expect(drain(q)).To(Equal([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))
	})

	It("rejects pushes after close", func() {
		q := capture.NewQueue()
		q.Close()
		q.Close()
		Expect(q.Push(capture.Frame{})).To(MatchError(capture.ErrQueueClosed))
		Eventually(q.Out()).Should(BeClosed())
	})
})
