package value

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSortKey   = errors.New("invalid sort key")
	ErrInvalidSortOrder = errors.New("invalid sort order")
	ErrInvalidDiaryTier = errors.New("invalid diary tier")
)

type SortKey string

const (
	SortByClickIntensity SortKey = "clickIntensity"
	SortByAfkiness       SortKey = "afkiness"
	SortByXpHour         SortKey = "xpHour"
	SortByHighProfit     SortKey = "highProfit"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortByHighProfit, nil
	case SortByClickIntensity, SortByAfkiness, SortByXpHour, SortByHighProfit:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
	}
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(s)); o {
	case "":
		return SortDesc, nil
	case SortAsc, SortDesc:
		return o, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortOrder, s)
	}
}

type DiaryTier string

const (
	TierEasy   DiaryTier = "easy"
	TierMedium DiaryTier = "medium"
	TierHard   DiaryTier = "hard"
	TierElite  DiaryTier = "elite"
)

func ParseDiaryTier(s string) (DiaryTier, error) {
	switch t := DiaryTier(strings.ToLower(s)); t {
	case TierEasy, TierMedium, TierHard, TierElite:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDiaryTier, s)
	}
}
