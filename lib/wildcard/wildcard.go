// Package wildcard implements the glob syntax of the redis KEYS command
package wildcard

const (
	normal    = iota
	all       // *
	any       // ?
	setSymbol // [...] or [^...]
)

type byteRange struct {
	lo, hi byte
}

type item struct {
	character byte
	ranges    []byteRange
	negate    bool
	typeCode  int
}

func (i *item) contains(c byte) bool {
	for _, r := range i.ranges {
		if r.lo <= c && c <= r.hi {
			return !i.negate
		}
	}
	return i.negate
}

func (i *item) matches(c byte) bool {
	switch i.typeCode {
	case any:
		return true
	case normal:
		return i.character == c
	case setSymbol:
		return i.contains(c)
	}
	return false
}

// Pattern represents a wildcard pattern
type Pattern struct {
	items []*item
}

// CompilePattern convert wildcard string to Pattern.
// Supports *, ?, \ escapes and sets like [abc], [a-z], [^0-9]. An unclosed set runs to the end of src.
func CompilePattern(src string) *Pattern {
	items := make([]*item, 0, len(src))
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '*':
			if len(items) > 0 && items[len(items)-1].typeCode == all {
				continue // consecutive stars are equivalent to one
			}
			items = append(items, &item{typeCode: all})
		case '?':
			items = append(items, &item{typeCode: any})
		case '\\':
			if i+1 < len(src) {
				i++
			}
			items = append(items, &item{typeCode: normal, character: src[i]})
		case '[':
			set := &item{typeCode: setSymbol}
			i++
			if i < len(src) && src[i] == '^' {
				set.negate = true
				i++
			}
			for ; i < len(src) && src[i] != ']'; i++ {
				if src[i] == '\\' && i+1 < len(src) {
					i++
					set.ranges = append(set.ranges, byteRange{src[i], src[i]})
				} else if i+2 < len(src) && src[i+1] == '-' && src[i+2] != ']' {
					lo, hi := src[i], src[i+2]
					if lo > hi {
						lo, hi = hi, lo
					}
					set.ranges = append(set.ranges, byteRange{lo, hi})
					i += 2
				} else {
					set.ranges = append(set.ranges, byteRange{src[i], src[i]})
				}
			}
			items = append(items, set)
		default:
			items = append(items, &item{typeCode: normal, character: c})
		}
	}
	return &Pattern{
		items: items,
	}
}

// IsMatch returns whether the given string matches pattern
func (p *Pattern) IsMatch(s string) bool {
	n := len(p.items)
	// prev[j]: s[:i-1] matches items[:j]
	prev := make([]bool, n+1)
	cur := make([]bool, n+1)
	prev[0] = true
	for j := 1; j <= n; j++ {
		prev[j] = prev[j-1] && p.items[j-1].typeCode == all
	}
	for i := 1; i <= len(s); i++ {
		cur[0] = false
		for j := 1; j <= n; j++ {
			it := p.items[j-1]
			if it.typeCode == all {
				cur[j] = prev[j] || cur[j-1]
			} else {
				cur[j] = prev[j-1] && it.matches(s[i-1])
			}
		}
		prev, cur = cur, prev
	}
	return prev[n]
}
