package receipt

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Document", func() {
	var (
		text string
		doc  Document
	)

	JustBeforeEach(func() {
		doc = NewDocument(text)
	})

	When("text has several lines", func() {
		BeforeEach(func() {
			text = "first\n\nthird"
		})

		It("keeps every line including blanks", func() {
			Expect(doc.Len()).To(Equal(3))
		})

		It("returns lines by position", func() {
			line, err := doc.Line(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(line).To(Equal("third"))
		})

		It("returns an empty line as a real value", func() {
			line, err := doc.Line(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(line).To(BeEmpty())
		})
	})

	When("text ends with a newline", func() {
		BeforeEach(func() {
			text = strings.Join(grabLines, "\n") + "\n"
		})

		It("has a trailing empty line", func() {
			Expect(doc.Len()).To(Equal(len(grabLines) + 1))
		})
	})

	Describe("Line out of range", func() {
		BeforeEach(func() {
			text = "a\nb"
		})

		It("fails for the index equal to the length", func() {
			_, err := doc.Line(2)
			Expect(err).To(HaveOccurred())

			var rangeErr *OutOfRangeError
			Expect(errors.As(err, &rangeErr)).To(BeTrue())
			Expect(rangeErr.Index).To(Equal(2))
			Expect(rangeErr.Lines).To(Equal(2))
		})

		It("matches ErrOutOfRange", func() {
			_, err := doc.Line(10)
			Expect(errors.Is(err, ErrOutOfRange)).To(BeTrue())
		})

		It("fails for negative indexes", func() {
			_, err := doc.Line(-1)
			Expect(errors.Is(err, ErrOutOfRange)).To(BeTrue())
		})

		It("names the missing line", func() {
			_, err := doc.Line(7)
			Expect(err.Error()).To(ContainSubstring("line 7 does not exist"))
		})
	})
})
