package util

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// GatherScorePaths expands each argument as a glob and keeps the matches
// in argument order. Arguments without a match are returned as is so the
// caller can report them.
func GatherScorePaths(args []string) []string {
	var res []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil || len(matches) == 0 {
			res = append(res, arg)
			continue
		}
		res = append(res, matches...)
	}
	return res
}

func IsScoreFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".xml" || ext == ".mxl" || ext == ".musicxml"
}

func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func GetKeys[A comparable, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// SortedKeys returns the keys of m in ascending order. Output numbering
// depends on this order, so never range over those maps directly.
func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := GetKeys(m)
	slices.Sort(keys)
	return keys
}

func GCD[A constraints.Integer](a, b A) A {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func Min[A constraints.Ordered](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Ordered](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

func Sum[A constraints.Integer](nums []A) int {
	var total int
	for _, v := range nums {
		total += int(v)
	}
	return total
}

func Contains[A comparable](xs []A, x A) bool {
	return slices.Contains(xs, x)
}

// Remove deletes the first occurrence of x and reports whether it was found.
func Remove[A comparable](xs []A, x A) ([]A, bool) {
	i := slices.Index(xs, x)
	if i < 0 {
		return xs, false
	}
	return slices.Delete(xs, i, i+1), true
}
