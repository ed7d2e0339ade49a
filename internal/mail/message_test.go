package mail

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func rawMessage(contentType, body string) []byte {
	return []byte(strings.Join([]string{
		"From: Grab <noreply@grab.com>",
		"To: receipts@example.com",
		"Subject: Your Grab E-Receipt",
		"MIME-Version: 1.0",
		"Content-Type: " + contentType,
		"",
		body,
	}, "\r\n"))
}

var _ = Describe("ParseMessage", func() {
	var (
		raw []byte
		msg *Message
		err error
	)

	JustBeforeEach(func() {
		msg, err = ParseMessage(raw)
	})

	When("the message is HTML", func() {
		BeforeEach(func() {
			raw = rawMessage("text/html; charset=utf-8", "<p>Issued to John Tan</p>")
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("reads the headers", func() {
			Expect(msg.From).To(ContainSubstring("noreply@grab.com"))
			Expect(msg.To).To(Equal("receipts@example.com"))
			Expect(msg.Subject).To(Equal("Your Grab E-Receipt"))
		})

		It("uses the HTML part as the body", func() {
			Expect(msg.Body()).To(ContainSubstring("<p>Issued to John Tan</p>"))
		})
	})

	When("the message is multipart", func() {
		BeforeEach(func() {
			raw = rawMessage(`multipart/alternative; boundary="b1"`, strings.Join([]string{
				"--b1",
				"Content-Type: text/plain; charset=utf-8",
				"",
				"plain version",
				"--b1",
				"Content-Type: text/html; charset=utf-8",
				"",
				"<div>html version</div>",
				"--b1--",
			}, "\r\n"))
		})

		It("prefers the HTML part", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(msg.Body()).To(ContainSubstring("html version"))
			Expect(msg.Text).To(ContainSubstring("plain version"))
		})
	})

	When("the message is plain text", func() {
		BeforeEach(func() {
			raw = rawMessage("text/plain; charset=utf-8", "line one\r\nline two")
		})

		It("falls back to the text part", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(msg.HTML).To(BeEmpty())
			Expect(msg.Body()).To(ContainSubstring("line one"))
		})
	})

	When("the message has no body", func() {
		BeforeEach(func() {
			raw = rawMessage("text/plain; charset=utf-8", "")
		})

		It("returns ErrNoBody", func() {
			Expect(errors.Is(err, ErrNoBody)).To(BeTrue())
		})
	})
})
