package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ledgerconv/internal/logging"
	"ledgerconv/internal/lookup"
	"ledgerconv/internal/record"
	"ledgerconv/internal/textutil"
)

// DefaultKeywords mark a first name as belonging to an organization rather
// than a person.
var DefaultKeywords = []string{
	"CENTER", "INC", "LLC", "CARE", "COMMONS", "OFFICE", "KIDS",
	"LEARNING", "RANCH", "APARTMENTS", "KIDZ", "PROPERTIES", "BRIDGE",
	"CLUB", "LP", "FRIENDS", "PRESCHOOL", "PARK", "KNOWLEDGE", "PORTSIDE",
	"PROPERTY", "ADVANCED", "WORLD", "MONTESS", "ACADEMY", "PETITE",
	"HONEST", "INVESTMENT", "SCHOOL", "PLAYHOUSE", "TYMES", "PLAYSCHOOL",
	"DAYCARE", "COUNTRY", "VILLA", "WAKING", "MONTESSORI",
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithKeywords adds organization keywords to the default set.
func WithKeywords(extra ...string) Option {
	return func(c *Classifier) {
		for _, keyword := range extra {
			if keyword = textutil.Upper(strings.TrimSpace(keyword)); keyword != "" {
				c.keywords = append(c.keywords, keyword)
			}
		}
	}
}

// WithDirectory enables enrichment from d.
func WithDirectory(d lookup.Directory) Option {
	return func(c *Classifier) {
		if d != nil {
			c.directory = d
		}
	}
}

// WithLogger sets the logger used for enrichment diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Classifier applies the exception rules to a batch.
type Classifier struct {
	keywords  []string
	directory lookup.Directory
	logger    *slog.Logger
}

// New builds a Classifier with the default keywords and no directory.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		keywords:  append([]string(nil), DefaultKeywords...),
		directory: lookup.Nop{},
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Keywords returns the active organization keywords.
func (c *Classifier) Keywords() []string {
	return append([]string(nil), c.keywords...)
}

// Classify splits batch into valid records and exceptions, preserving order.
// Records are cloned so the batch itself is not modified.
func (c *Classifier) Classify(ctx context.Context, batch *record.Batch) (Result, error) {
	directory, err := c.resolve(ctx, batch)
	if err != nil {
		return Result{}, err
	}
	checkDirectory := lookup.Enabled(c.directory)

	result := Result{Valid: make([]record.Record, 0, batch.Len())}
	for _, source := range batch.Records {
		rec := source.Clone()
		var exception Exception

		if c.HasOrganizationKeyword(batch.Value(rec, record.FirstName)) {
			exception.Add(ReasonOrganizationKeyword)
		}
		if batch.Value(rec, record.Address1) == "" {
			exception.Add(ReasonMissingAddress)
		}
		taxID := batch.Value(rec, record.TaxID)
		if strings.Contains(taxID, "-") {
			exception.Add(ReasonInvalidTaxID)
		}
		if checkDirectory {
			person, ok := directory[textutil.DigitsOnly(taxID)]
			if ok {
				record.Set(batch.Schema, &rec, record.FirstName, person.FirstName)
				record.Set(batch.Schema, &rec, record.MiddleName, person.MiddleName)
				record.Set(batch.Schema, &rec, record.LastName, person.LastName)
			} else {
				exception.Add(ReasonInvalidTaxID)
			}
		}

		if len(exception.Reasons) > 0 {
			exception.Record = rec
			result.Exceptions = append(result.Exceptions, exception)
			continue
		}
		result.Valid = append(result.Valid, rec)
	}
	return result, nil
}

// HasOrganizationKeyword reports whether firstName contains any keyword,
// ignoring case.
func (c *Classifier) HasOrganizationKeyword(firstName string) bool {
	upper := textutil.Upper(firstName)
	if upper == "" {
		return false
	}
	for _, keyword := range c.keywords {
		if strings.Contains(upper, keyword) {
			return true
		}
	}
	return false
}

func (c *Classifier) resolve(ctx context.Context, batch *record.Batch) (map[string]lookup.Person, error) {
	if !lookup.Enabled(c.directory) {
		return nil, nil
	}
	ids := make([]string, 0, batch.Len())
	for _, rec := range batch.Records {
		if id := batch.Value(rec, record.TaxID); id != "" {
			ids = append(ids, id)
		}
	}
	people, err := c.directory.LookupByTaxID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("directory lookup: %w", err)
	}
	byID := make(map[string]lookup.Person, len(people))
	for _, person := range people {
		byID[textutil.DigitsOnly(person.TaxID)] = person
	}
	c.logger.Debug("directory lookup complete",
		logging.Int("requested", len(ids)),
		logging.Int("matched", len(byID)),
	)
	return byID, nil
}
