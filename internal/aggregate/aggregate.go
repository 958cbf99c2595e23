// Package aggregate computes the grouped totals shown on summary cards. Results are
// never stored; callers recompute them from the collection they just fetched.
package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Other collects records whose group value is missing.
const Other = "OTHER"

// Bucket is the total and the number of records of one group.
type Bucket struct {
	Total decimal.Decimal
	Count int
}

// Result maps a group value to its bucket.
type Result map[string]Bucket

// Group is one row of a Result in display order.
type Group struct {
	Key string
	Bucket
}

// By groups records by groupKey and sums sumField. Amounts are parsed as decimals;
// text that does not parse contributes zero but is still counted.
func By[T any](records []T, groupKey func(T) string, sumField func(T) string) Result {
	res := make(Result)

	for _, rec := range records {
		res.add(groupKey(rec), sumField(rec))
	}

	return res
}

// Fields is By for records decoded into generic maps, where groupKey and sumField
// name the fields to use.
func Fields(records []map[string]any, groupKey, sumField string) Result {
	return By(records,
		func(r map[string]any) string { return text(r[groupKey]) },
		func(r map[string]any) string { return text(r[sumField]) },
	)
}

func (r Result) add(key, amount string) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = Other
	}

	b := r[key]
	b.Count++

	if d, err := decimal.NewFromString(strings.TrimSpace(amount)); err == nil {
		b.Total = b.Total.Add(d)
	}

	r[key] = b
}

// Get returns the bucket for key; missing groups read as zero.
func (r Result) Get(key string) Bucket {
	return r[key]
}

// Sum returns the grand total and record count over all groups.
func (r Result) Sum() Bucket {
	var all Bucket
	for _, b := range r {
		all.Total = all.Total.Add(b.Total)
		all.Count += b.Count
	}

	return all
}

// Sorted returns the groups by descending total, ties broken by key. Other is last.
func (r Result) Sorted() []Group {
	groups := make([]Group, 0, len(r))
	for k, b := range r {
		groups = append(groups, Group{Key: k, Bucket: b})
	}

	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if (a.Key == Other) != (b.Key == Other) {
			return b.Key == Other
		}

		if c := a.Total.Cmp(b.Total); c != 0 {
			return c > 0
		}

		return a.Key < b.Key
	})

	return groups
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return decimal.NewFromFloat(t).String()
	default:
		return fmt.Sprint(t)
	}
}
