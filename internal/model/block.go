package model

import (
	"fmt"
	"strings"
	"time"
)

// A trading day is 96 blocks of 15 minutes; block 1 is 00:00-00:15.
const (
	BlocksPerDay  = 96
	BlockDuration = 15 * time.Minute
	FirstBlock    = 1
	LastBlock     = BlocksPerDay
)

// ScheduleBlock is one block of a day-ahead schedule as submitted by the site.
type ScheduleBlock struct {
	BlockNo     int     `json:"block_no"`
	ScheduledMW float64 `json:"scheduled_mw"`
}

// GenerationBlock is one block of metered generation.
// It is deliberately not convertible from ScheduleBlock.
type GenerationBlock struct {
	BlockNo  int     `json:"block_no"`
	ActualMW float64 `json:"actual_mw"`
}

// ScheduleSeries is a site's schedule for one date.
type ScheduleSeries struct {
	SiteID string          `json:"site_id"`
	Date   Date            `json:"date"`
	Blocks []ScheduleBlock `json:"blocks"`
}

// GenerationSeries is a site's actual generation for one date.
type GenerationSeries struct {
	SiteID string            `json:"site_id"`
	Date   Date              `json:"date"`
	Blocks []GenerationBlock `json:"blocks"`
}

// ByBlock indexes scheduled MW by block number. Call only on validated series.
func (s ScheduleSeries) ByBlock() map[int]float64 {
	out := make(map[int]float64, len(s.Blocks))
	for _, b := range s.Blocks {
		out[b.BlockNo] = b.ScheduledMW
	}
	return out
}

// ByBlock indexes actual MW by block number. Call only on validated series.
func (g GenerationSeries) ByBlock() map[int]float64 {
	out := make(map[int]float64, len(g.Blocks))
	for _, b := range g.Blocks {
		out[b.BlockNo] = b.ActualMW
	}
	return out
}

func ValidBlockNo(blockNo int) bool {
	return blockNo >= FirstBlock && blockNo <= LastBlock
}

// BlockStart is the offset of the block's start from midnight.
func BlockStart(blockNo int) time.Duration {
	return time.Duration(blockNo-1) * BlockDuration
}

// BlockWindow returns [start, end) of a block on the given date in loc.
func BlockWindow(d Date, blockNo int, loc *time.Location) (time.Time, time.Time) {
	start := d.Time(loc).Add(BlockStart(blockNo))
	return start, start.Add(BlockDuration)
}

// BlockLabel renders a block as "HH:MM-HH:MM".
func BlockLabel(blockNo int) string {
	start := BlockStart(blockNo)
	end := start + BlockDuration
	return fmt.Sprintf("%s-%s", hhmm(start), hhmm(end))
}

// BlockFromHHMM maps a wall-clock "HH:MM" to its block number.
func BlockFromHHMM(s string) (int, error) {
	mins, err := ParseHHMM(s)
	if err != nil {
		return 0, err
	}
	return mins/int(BlockDuration/time.Minute) + 1, nil
}

// ParseHHMM parses "HH:MM" into minutes after midnight.
func ParseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0], "%d", &h); err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

func hhmm(d time.Duration) string {
	mins := int(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
