// Package document defines the structured output of the build action: a
// tailored CV and cover letter pair. The JSON shape here is the on-disk
// cache shape and the wire shape; no field uses omitempty, so absent values
// are always serialized as explicit zero values and every document carries
// the full skeleton.
package document

import (
	"errors"
	"fmt"
)

// Document is the build action's validated output.
type Document struct {
	CV     CV     `json:"cv" jsonschema:"required,description=Tailored CV"`
	Letter Letter `json:"letter" jsonschema:"required,description=Tailored cover letter"`
}

// CV is a contact block plus an ordered list of sections.
type CV struct {
	Contact  Contact   `json:"contact" jsonschema:"required"`
	Summary  string    `json:"summary" jsonschema:"description=Short professional summary tailored to the posting"`
	Sections []Section `json:"sections" jsonschema:"required,description=Ordered CV sections"`
}

type Contact struct {
	Name     string   `json:"name" jsonschema:"required"`
	Email    string   `json:"email" jsonschema:"required"`
	Phone    string   `json:"phone"`
	Location string   `json:"location"`
	Links    []string `json:"links" jsonschema:"description=Profile or portfolio URLs"`
}

// Section is a titled, ordered list of free-form entry lines.
type Section struct {
	Title   string   `json:"title" jsonschema:"required"`
	Entries []string `json:"entries" jsonschema:"required,description=Ordered free-form entry lines"`
}

type Letter struct {
	Sender    Party    `json:"sender" jsonschema:"required"`
	Recipient Party    `json:"recipient" jsonschema:"required"`
	Content   Content  `json:"content" jsonschema:"required"`
	Metadata  Metadata `json:"metadata" jsonschema:"required"`
}

type Party struct {
	Name    string `json:"name" jsonschema:"required"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Address string `json:"address"`
}

type Content struct {
	Salutation string   `json:"salutation" jsonschema:"required"`
	Opening    string   `json:"opening" jsonschema:"required"`
	Body       []string `json:"body" jsonschema:"description=Body paragraphs between opening and closing"`
	Closing    string   `json:"closing" jsonschema:"required"`
}

type Metadata struct {
	Date    string `json:"date"`
	Subject string `json:"subject"`
}

// Validate enforces the schema's required constraints on a parsed document.
// Unmarshalling alone accepts any object, including an empty one; providers
// that ignore or weaken the response schema are caught here, so a
// nonconforming result fails the attempt instead of reaching the caller.
func (d Document) Validate() error {
	if err := d.CV.validate(); err != nil {
		return fmt.Errorf("cv: %w", err)
	}
	if err := d.Letter.validate(); err != nil {
		return fmt.Errorf("letter: %w", err)
	}
	return nil
}

func (c CV) validate() error {
	if c.Contact.Name == "" {
		return errors.New("contact.name is required")
	}
	if c.Contact.Email == "" {
		return errors.New("contact.email is required")
	}
	if len(c.Sections) == 0 {
		return errors.New("sections must not be empty")
	}
	for i, s := range c.Sections {
		if s.Title == "" {
			return fmt.Errorf("sections[%d].title is required", i)
		}
		if len(s.Entries) == 0 {
			return fmt.Errorf("sections[%d].entries must not be empty", i)
		}
	}
	return nil
}

func (l Letter) validate() error {
	if l.Sender.Name == "" {
		return errors.New("sender.name is required")
	}
	if l.Recipient.Name == "" {
		return errors.New("recipient.name is required")
	}
	if l.Content.Salutation == "" {
		return errors.New("content.salutation is required")
	}
	if l.Content.Opening == "" {
		return errors.New("content.opening is required")
	}
	if l.Content.Closing == "" {
		return errors.New("content.closing is required")
	}
	return nil
}
