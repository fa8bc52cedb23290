// File: mode.go
package cgr

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidMode is returned for selection codes that name no mode, and for
// merge requests in modes that do not merge.
var ErrInvalidMode = errors.New("cgr: invalid selection mode")

// Mode selects the molecules a condensed graph is built from.
//
//	0   condensed graph of all molecules
//	1   union of all substrates
//	2   union of all products
//	3   union of the chosen substrates        5   all substrates but the chosen
//	4   union of the chosen products          6   all products but the chosen
//	7   CGR of chosen substrates and chosen products
//	8   CGR of the remaining substrates and remaining products
//	9   CGR of the remaining substrates and chosen products
//	10  CGR of chosen substrates and remaining products
type Mode struct {
	Type int
	// 0-based molecule indices, deduplicated, descending.
	Substrates []int
	Products   []int
}

// Merges reports whether the mode builds a condensed graph out of both
// roles.
func (m Mode) Merges() bool {
	return m.Type == 0 || m.Type >= 7
}

func (m Mode) String() string {
	return strconv.Itoa(m.Type)
}

// ParseMode resolves a comma separated selection code.
//
// The first integer 0, 1 or 2 selects that mode. Otherwise the integers are
// molecule codes: 1xx includes substrate xx, 2xx includes product xx, and
// negative codes exclude. The mode follows from the combination of codes. A
// leading explicit mode 3 to 10 followed by molecule codes is accepted as
// well; the sign of the codes is then ignored. Modes 7 to 10 need codes
// for both roles.
func ParseMode(code string) (Mode, error) {
	var nums []int
	for _, f := range strings.Split(code, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return Mode{}, fmt.Errorf("%w: %q: %v", ErrInvalidMode, code, err)
		}
		nums = append(nums, n)
	}
	if len(nums) == 0 {
		return Mode{}, nil
	}
	if nums[0] >= 0 && nums[0] <= 2 {
		return Mode{Type: nums[0]}, nil
	}

	explicit := 0
	if nums[0] >= 3 && nums[0] <= 10 {
		explicit, nums = nums[0], nums[1:]
	}

	var subIn, subEx, prodIn, prodEx bool
	var m Mode
	for _, n := range nums {
		switch {
		case n > 100 && n < 200:
			subIn = true
		case n > 200 && n < 300:
			prodIn = true
		case n > -200 && n < -100:
			subEx = true
		case n > -300 && n < -200:
			prodEx = true
		default:
			return Mode{}, fmt.Errorf("%w: %q: molecule code %d", ErrInvalidMode, code, n)
		}
		if a := abs(n); a < 200 {
			m.Substrates = append(m.Substrates, a-101)
		} else {
			m.Products = append(m.Products, a-201)
		}
	}
	if len(nums) == 0 {
		return Mode{}, fmt.Errorf("%w: %q: mode %d needs molecule codes", ErrInvalidMode, code, explicit)
	}

	switch {
	case explicit != 0:
		m.Type = explicit
		if explicit >= 7 && (len(m.Substrates) == 0 || len(m.Products) == 0) {
			return Mode{}, fmt.Errorf("%w: %q: mode %d needs substrate and product codes", ErrInvalidMode, code, explicit)
		}
	case !subEx && !prodEx && subIn && prodIn:
		m.Type = 7
	case subEx && prodEx:
		m.Type = 8
	case subEx && !prodEx && prodIn:
		m.Type = 9
	case !subEx && prodEx && subIn:
		m.Type = 10
	default:
		switch first := nums[0]; {
		case first > 0 && first < 200:
			m.Type = 3
		case first > 0:
			m.Type = 4
		case first > -200:
			m.Type = 5
		default:
			m.Type = 6
		}
	}

	m.Substrates = sortIndices(m.Substrates)
	m.Products = sortIndices(m.Products)
	return m, nil
}

func sortIndices(ix []int) []int {
	slices.Sort(ix)
	ix = slices.Compact(ix)
	slices.Reverse(ix)
	return ix
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
