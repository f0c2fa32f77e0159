package readability

// Budget caps how many items are scored per category. A limit of zero means
// unlimited.
type Budget struct {
	Default     int
	PerCategory map[string]int
	spent       map[string]int
}

// NewBudget returns a budget with a default limit and per-category overrides.
func NewBudget(defaultLimit int, perCategory map[string]int) *Budget {
	return &Budget{Default: defaultLimit, PerCategory: perCategory, spent: map[string]int{}}
}

// Limit returns the cap of category.
func (b *Budget) Limit(category string) int {
	if limit, ok := b.PerCategory[category]; ok {
		return limit
	}
	return b.Default
}

// Allow reports whether category can take one more item.
func (b *Budget) Allow(category string) bool {
	limit := b.Limit(category)
	return limit <= 0 || b.spent[category] < limit
}

// Spend consumes one unit of category; false means the budget is exhausted
// and nothing was spent.
func (b *Budget) Spend(category string) bool {
	if !b.Allow(category) {
		return false
	}
	if b.spent == nil {
		b.spent = map[string]int{}
	}
	b.spent[category]++
	return true
}

// Spent returns how many items category consumed.
func (b *Budget) Spent(category string) int {
	return b.spent[category]
}

// Remaining returns the items left for category, or -1 when unlimited.
func (b *Budget) Remaining(category string) int {
	limit := b.Limit(category)
	if limit <= 0 {
		return -1
	}
	if left := limit - b.spent[category]; left > 0 {
		return left
	}
	return 0
}

// Exhausted reports whether every listed category reached its cap.
func (b *Budget) Exhausted(categories []string) bool {
	if len(categories) == 0 {
		return false
	}
	for _, c := range categories {
		if b.Allow(c) {
			return false
		}
	}
	return true
}
