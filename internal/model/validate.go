package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Rule names a block-series validation rule.
type Rule string

const (
	RuleBlockCountMismatch Rule = "BlockCountMismatch"
	RuleBlockOutOfRange    Rule = "BlockOutOfRange"
	RuleDuplicateBlock     Rule = "DuplicateBlock"
	RuleNegativeValue      Rule = "NegativeValue"
	RuleNonFiniteValue     Rule = "NonFiniteValue"
)

var (
	ErrBlockCountMismatch = errors.New("block count mismatch")
	ErrBlockOutOfRange    = errors.New("block out of range")
	ErrDuplicateBlock     = errors.New("duplicate block")
	ErrNegativeValue      = errors.New("negative value")
	ErrNonFiniteValue     = errors.New("non-finite value")
)

// Err returns the sentinel matched by errors.Is for this rule.
func (r Rule) Err() error {
	switch r {
	case RuleBlockCountMismatch:
		return ErrBlockCountMismatch
	case RuleBlockOutOfRange:
		return ErrBlockOutOfRange
	case RuleDuplicateBlock:
		return ErrDuplicateBlock
	case RuleNegativeValue:
		return ErrNegativeValue
	case RuleNonFiniteValue:
		return ErrNonFiniteValue
	}
	return nil
}

// SeriesKind tells which upload a ValidationError refers to.
type SeriesKind string

const (
	KindSchedule   SeriesKind = "schedule"
	KindGeneration SeriesKind = "generation"
	KindMarket     SeriesKind = "market"
)

// Violation pins one failed rule to a block.
// Index is the position in the submitted slice; it is -1 for whole-series rules.
type Violation struct {
	Index   int    `json:"index"`
	BlockNo int    `json:"block_no"`
	Rule    Rule   `json:"rule"`
	Detail  string `json:"detail"`
}

// ValidationError reports every violation found in one series.
type ValidationError struct {
	Kind       SeriesKind  `json:"kind"`
	SiteID     string      `json:"site_id,omitempty"`
	Date       Date        `json:"date"`
	Violations []Violation `json:"violations"`
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s series", e.Kind)
	if e.SiteID != "" {
		fmt.Fprintf(&sb, " site=%s", e.SiteID)
	}
	if !e.Date.IsZero() {
		fmt.Fprintf(&sb, " date=%s", e.Date)
	}
	fmt.Fprintf(&sb, ": %d violation(s)", len(e.Violations))
	for i, v := range e.Violations {
		if i == 3 {
			fmt.Fprintf(&sb, "; ...")
			break
		}
		fmt.Fprintf(&sb, "; %s: %s", v.Rule, v.Detail)
	}
	return sb.String()
}

// Is matches the sentinel of any rule that failed.
func (e *ValidationError) Is(target error) bool {
	for _, v := range e.Violations {
		if v.Rule.Err() == target {
			return true
		}
	}
	return false
}

// Rules returns the distinct failed rules in first-seen order.
func (e *ValidationError) Rules() []Rule {
	seen := map[Rule]bool{}
	out := []Rule{}
	for _, v := range e.Violations {
		if !seen[v.Rule] {
			seen[v.Rule] = true
			out = append(out, v.Rule)
		}
	}
	return out
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func ValidateSchedule(s ScheduleSeries) error {
	entries := make([]blockEntry, len(s.Blocks))
	for i, b := range s.Blocks {
		entries[i] = blockEntry{blockNo: b.BlockNo, values: []fieldValue{{"scheduled_mw", &s.Blocks[i].ScheduledMW}}}
	}
	return validateBlocks(KindSchedule, s.SiteID, s.Date, entries)
}

func ValidateGeneration(g GenerationSeries) error {
	entries := make([]blockEntry, len(g.Blocks))
	for i, b := range g.Blocks {
		entries[i] = blockEntry{blockNo: b.BlockNo, values: []fieldValue{{"actual_mw", &g.Blocks[i].ActualMW}}}
	}
	return validateBlocks(KindGeneration, g.SiteID, g.Date, entries)
}

// ValidateMarketPrices applies the same block rules to a price curve.
// Missing prices are allowed; present ones must be finite and >= 0.
func ValidateMarketPrices(m MarketPriceSeries) error {
	entries := make([]blockEntry, len(m.Blocks))
	for i, b := range m.Blocks {
		entries[i] = blockEntry{blockNo: b.BlockNo, values: []fieldValue{
			{"dam_price", b.DAMPrice},
			{"rtm_price", b.RTMPrice},
		}}
	}
	return validateBlocks(KindMarket, "", m.Date, entries)
}

type fieldValue struct {
	name  string
	value *float64
}

type blockEntry struct {
	blockNo int
	values  []fieldValue
}

// validateBlocks is the single rule set shared by every upload kind.
func validateBlocks(kind SeriesKind, siteID string, date Date, entries []blockEntry) error {
	var violations []Violation

	if len(entries) != BlocksPerDay {
		violations = append(violations, Violation{
			Index:  -1,
			Rule:   RuleBlockCountMismatch,
			Detail: fmt.Sprintf("got %d blocks, want %d", len(entries), BlocksPerDay),
		})
	}

	firstSeen := make(map[int]int, len(entries))
	for i, e := range entries {
		if !ValidBlockNo(e.blockNo) {
			violations = append(violations, Violation{
				Index:   i,
				BlockNo: e.blockNo,
				Rule:    RuleBlockOutOfRange,
				Detail:  fmt.Sprintf("block_no %d not in [%d,%d]", e.blockNo, FirstBlock, LastBlock),
			})
		} else if prev, dup := firstSeen[e.blockNo]; dup {
			violations = append(violations, Violation{
				Index:   i,
				BlockNo: e.blockNo,
				Rule:    RuleDuplicateBlock,
				Detail:  fmt.Sprintf("block_no %d already given at index %d", e.blockNo, prev),
			})
		} else {
			firstSeen[e.blockNo] = i
		}

		for _, fv := range e.values {
			if fv.value == nil {
				continue
			}
			v := *fv.value
			switch {
			case math.IsNaN(v) || math.IsInf(v, 0):
				violations = append(violations, Violation{
					Index:   i,
					BlockNo: e.blockNo,
					Rule:    RuleNonFiniteValue,
					Detail:  fmt.Sprintf("%s is not a finite number", fv.name),
				})
			case v < 0:
				violations = append(violations, Violation{
					Index:   i,
					BlockNo: e.blockNo,
					Rule:    RuleNegativeValue,
					Detail:  fmt.Sprintf("%s %g < 0", fv.name, v),
				})
			}
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Kind: kind, SiteID: siteID, Date: date, Violations: violations}
}
