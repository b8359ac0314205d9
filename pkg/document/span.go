package document

// Span is a half-open token-index range [Start, End) identifying one mention.
// Spans compare by index equality.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether o lies within s.
func (s Span) Contains(o Span) bool {
	return o.Start >= s.Start && o.End <= s.End
}

// Overlaps reports whether s and o are different spans sharing at least one
// token. Nested spans always overlap.
func (s Span) Overlaps(o Span) bool {
	if s == o {
		return false
	}
	return s.Start < o.End && o.Start < s.End
}

// CharSpan is a half-open byte range into a text.
type CharSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Cluster is an ordered group of co-referring mentions.
type Cluster []Span
