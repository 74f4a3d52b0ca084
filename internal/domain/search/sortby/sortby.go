package sortby

import "fmt"

// Option is the ordering applied to document results.
type Option string

// Sort option constants.
const (
	// Relevance orders by descending relevance score.
	Relevance Option = "relevance"
	DateDesc  Option = "date_desc"
	DateAsc   Option = "date_asc"
	NameAsc   Option = "name_asc"
	NameDesc  Option = "name_desc"
	SizeDesc  Option = "size_desc"
	SizeAsc   Option = "size_asc"
)

// IsValid checks if the option is one of the supported values.
func (o Option) IsValid() bool {
	switch o {
	case Relevance, DateDesc, DateAsc, NameAsc, NameDesc, SizeDesc, SizeAsc:
		return true
	}
	return false
}

// Parse validates s. An empty string selects Relevance.
func Parse(s string) (Option, error) {
	if s == "" {
		return Relevance, nil
	}
	o := Option(s)
	if !o.IsValid() {
		return "", fmt.Errorf("invalid sort option: %q", s)
	}
	return o, nil
}
