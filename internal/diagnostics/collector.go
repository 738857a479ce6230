package diagnostics

import (
	"github.com/hashicorp/go-multierror"
)

// Collector accumulates every syntax error found during one parse pass
// instead of stopping at the first, per the parser's "report everything
// wrong with this file at once" behavior.
type Collector struct {
	errs *multierror.Error
}

func NewCollector() *Collector {
	return &Collector{errs: &multierror.Error{}}
}

func (c *Collector) Add(e *Error) {
	c.errs = multierror.Append(c.errs, e)
}

func (c *Collector) Empty() bool {
	return c.errs == nil || len(c.errs.Errors) == 0
}

// First returns the first recorded error, or nil.
func (c *Collector) First() *Error {
	if c.Empty() {
		return nil
	}
	if e, ok := c.errs.Errors[0].(*Error); ok {
		return e
	}
	return nil
}

// All returns every recorded error, in the order they were found.
func (c *Collector) All() []*Error {
	out := make([]*Error, 0, len(c.errs.Errors))
	for _, e := range c.errs.Errors {
		if de, ok := e.(*Error); ok {
			out = append(out, de)
		}
	}
	return out
}

// Combined returns every recorded error as one go-multierror value
// whose message lists each recorded error, for callers that want a
// single error value to propagate.
func (c *Collector) Combined() error {
	if c.Empty() {
		return nil
	}
	return c.errs.ErrorOrNil()
}
