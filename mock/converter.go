package mock

import "github.com/fwojciec/tenk"

var _ tenk.Converter = (*Converter)(nil)

// Converter is a mock implementation of tenk.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
