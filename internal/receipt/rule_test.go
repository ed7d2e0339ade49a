package receipt

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FieldRule", func() {
	var (
		rule  FieldRule
		doc   Document
		value string
		err   error
	)

	JustBeforeEach(func() {
		value, err = rule.Apply(doc)
	})

	When("the line contains the patterns", func() {
		BeforeEach(func() {
			rule = FieldRule{Field: FieldDriverName, Line: 1, Remove: []string{"Issued to"}}
			doc = NewDocument("header\nIssued to John Tan")
		})

		It("strips the pattern and trims", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("John Tan"))
		})
	})

	When("a pattern occurs more than once", func() {
		BeforeEach(func() {
			rule = FieldRule{Field: FieldDropoffAddress, Line: 0, Remove: []string{"Tag:"}}
			doc = NewDocument("Tag: home Tag: work")
		})

		It("removes every occurrence", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(value).NotTo(ContainSubstring("Tag:"))
			Expect(value).To(Equal("home  work"))
		})
	})

	When("none of the patterns are present", func() {
		BeforeEach(func() {
			rule = FieldRule{Field: FieldBookingType, Line: 0, Remove: []string{"Issued by driver"}}
			doc = NewDocument("   GrabCar Plus  ")
		})

		It("passes the trimmed line through", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("GrabCar Plus"))
		})
	})

	When("the line is already clean", func() {
		BeforeEach(func() {
			rule = FieldRule{Field: FieldDriverName, Line: 0, Remove: []string{"Issued to"}}
			doc = NewDocument("Issued to John Tan")
		})

		It("is idempotent", func() {
			again, againErr := rule.Apply(NewDocument(value))
			Expect(againErr).NotTo(HaveOccurred())
			Expect(again).To(Equal(value))
		})
	})

	When("patterns do not overlap", func() {
		BeforeEach(func() {
			rule = FieldRule{Field: FieldDropoffAddress, Line: 0, Remove: []string{"Tag:", "Profile:"}}
			doc = NewDocument("Pasay Tag: Profile: Business")
		})

		It("gives the same result in either order", func() {
			reversed := FieldRule{Field: rule.Field, Line: rule.Line, Remove: []string{"Profile:", "Tag:"}}
			other, otherErr := reversed.Apply(doc)
			Expect(otherErr).NotTo(HaveOccurred())
			Expect(other).To(Equal(value))
		})
	})

	When("patterns are applied in sequence", func() {
		BeforeEach(func() {
			rule = FieldRule{Field: FieldAmount, Line: 0, Remove: []string{"P", "|", "TIME", "DATE"}}
			doc = NewDocument("P|123.45|TIME10:00AMDATE2020-01-01")
		})

		It("removes only the literal boilerplate", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("123.4510:00AM2020-01-01"))
		})
	})

	When("the line is missing", func() {
		BeforeEach(func() {
			rule = FieldRule{Field: FieldDriverName, Line: 4, Remove: []string{"Issued to"}}
			doc = NewDocument("only\ntwo")
		})

		It("returns the out of range error", func() {
			Expect(errors.Is(err, ErrOutOfRange)).To(BeTrue())
			Expect(value).To(BeEmpty())
		})
	})

	Describe("Validate", func() {
		It("accepts a well formed rule", func() {
			Expect(FieldRule{Field: "x", Line: 0, Remove: []string{"a"}}.Validate()).To(Succeed())
		})

		It("rejects a missing field name", func() {
			Expect(FieldRule{Line: 1}.Validate()).To(MatchError(ContainSubstring("field name is required")))
		})

		It("rejects a negative line", func() {
			Expect(FieldRule{Field: "x", Line: -1}.Validate()).To(MatchError(ContainSubstring("negative")))
		})

		It("rejects an empty pattern", func() {
			Expect(FieldRule{Field: "x", Remove: []string{"a", ""}}.Validate()).To(MatchError(ContainSubstring("pattern 1 is empty")))
		})
	})
})
