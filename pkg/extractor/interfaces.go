package extractor

// Filter narrows a list of page URLs. Implementations keep input order.
type Filter interface {
	Apply(urls []string) []string
	Name() string
}

var _ Filter = (*Level1Filter)(nil)
