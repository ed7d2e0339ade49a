package mail

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HTMLToText", func() {
	var (
		html string
		text string
		err  error
	)

	JustBeforeEach(func() {
		text, err = HTMLConverter{}.Convert(html)
	})

	When("blocks and breaks separate content", func() {
		BeforeEach(func() {
			html = `<html><head><title>ignored</title><style>p {color: red}</style></head>
<body>
  <h1>Your Grab E-Receipt</h1>
  <p>Issued to<br>John   Tan</p>
  <div><span>Booking</span> <b>code</b></div>
</body></html>`
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("emits one line per block", func() {
			Expect(text).To(Equal("Your Grab E-Receipt\nIssued to\nJohn Tan\nBooking code"))
		})
	})

	When("content sits in table rows", func() {
		BeforeEach(func() {
			html = `<table><tr><td>Drop off location:</td><td>NAIA Terminal 3</td></tr><tr><td>Tag:</td></tr></table>`
		})

		It("joins cells with spaces and ends lines at rows", func() {
			Expect(text).To(Equal("Drop off location: NAIA Terminal 3\nTag:"))
		})
	})

	When("the html has entities and comments", func() {
		BeforeEach(func() {
			html = `<p>P&nbsp;245.00&nbsp;|&nbsp;TIME<!-- hidden --></p><script>var x = 1;</script>`
		})

		It("decodes entities and drops comments and scripts", func() {
			Expect(text).To(Equal("P 245.00 | TIME"))
		})
	})

	When("the input is empty", func() {
		BeforeEach(func() {
			html = ""
		})

		It("returns empty text", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(BeEmpty())
		})
	})
})
