package mail

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const validEvent = `{
  "Records": [{
    "eventSource": "aws:ses",
    "eventVersion": "1.0",
    "ses": {
      "mail": {
        "messageId": "o3vrnil0e2ic28trm7dfhrc2v0clambda4nbp0g1",
        "source": "noreply@grab.com",
        "destination": ["receipts@example.com"],
        "commonHeaders": {
          "from": ["Grab <noreply@grab.com>"],
          "to": ["receipts@example.com"],
          "subject": "Your Grab E-Receipt"
        }
      }
    }
  }]
}`

var _ = Describe("ParseEvent", func() {
	var (
		raw  string
		mail *Mail
		err  error
	)

	JustBeforeEach(func() {
		mail, err = ParseEvent([]byte(raw))
	})

	expectInvalid := func(reason string) {
		var invalid *InvalidEventError
		Expect(errors.As(err, &invalid)).To(BeTrue())
		Expect(invalid.Reason).To(ContainSubstring(reason))
		Expect(mail).To(BeNil())
	}

	When("the event is a single SES record", func() {
		BeforeEach(func() {
			raw = validEvent
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns the mail metadata", func() {
			Expect(mail.MessageID).To(Equal("o3vrnil0e2ic28trm7dfhrc2v0clambda4nbp0g1"))
			Expect(mail.Source).To(Equal("noreply@grab.com"))
			Expect(mail.CommonHeaders.Subject).To(Equal("Your Grab E-Receipt"))
		})
	})

	When("the payload is not JSON", func() {
		BeforeEach(func() {
			raw = "not json"
		})

		It("returns an InvalidEventError", func() {
			expectInvalid("malformed JSON")
		})
	})

	When("there are no records", func() {
		BeforeEach(func() {
			raw = `{"Records": []}`
		})

		It("returns an InvalidEventError", func() {
			expectInvalid("expected exactly 1 record, got 0")
		})
	})

	When("Records is missing", func() {
		BeforeEach(func() {
			raw = `{}`
		})

		It("returns an InvalidEventError", func() {
			expectInvalid("expected exactly 1 record")
		})
	})

	When("there are two records", func() {
		BeforeEach(func() {
			raw = `{"Records": [
				{"eventSource": "aws:ses", "eventVersion": "1.0", "ses": {"mail": {"messageId": "a"}}},
				{"eventSource": "aws:ses", "eventVersion": "1.0", "ses": {"mail": {"messageId": "b"}}}
			]}`
		})

		It("returns an InvalidEventError", func() {
			expectInvalid("got 2")
		})
	})

	When("the source is not SES", func() {
		BeforeEach(func() {
			raw = `{"Records": [{"eventSource": "aws:sns", "eventVersion": "1.0", "ses": {"mail": {"messageId": "a"}}}]}`
		})

		It("returns an InvalidEventError", func() {
			expectInvalid(`EventSource is "aws:sns"`)
		})
	})

	When("the version does not match", func() {
		BeforeEach(func() {
			raw = `{"Records": [{"eventSource": "aws:ses", "eventVersion": "2.0", "ses": {"mail": {"messageId": "a"}}}]}`
		})

		It("returns an InvalidEventError", func() {
			expectInvalid("EventVersion")
		})
	})

	When("the message id is missing", func() {
		BeforeEach(func() {
			raw = `{"Records": [{"eventSource": "aws:ses", "eventVersion": "1.0", "ses": {"mail": {}}}]}`
		})

		It("returns an InvalidEventError", func() {
			expectInvalid("MessageID is required")
		})
	})
})
