package util

import (
	"bufio"
	"encoding/gob"
	"os"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

func RecreateOutputDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrap(err, "could not remove output dir")
	}
	return errors.Wrap(os.MkdirAll(dir, 0755), "could not create output dir")
}

func EnsureDir(dir string) error {
	return errors.Wrap(os.MkdirAll(dir, 0755), "could not create dir "+dir)
}

func GetKeys[A comparable, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func GetSortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := GetKeys(m)
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func CreateBinary(filename string, data any) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "couldn't create file "+filename)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := gob.NewEncoder(w).Encode(data); err != nil {
		return errors.Wrap(err, "couldn't encode "+filename)
	}
	return errors.Wrap(w.Flush(), "write failed for file "+filename)
}

func ReadBinary[A any](path string) (A, error) {
	var data A
	f, err := os.Open(path)
	if err != nil {
		return data, errors.Wrap(err, "could not load binary file")
	}
	defer f.Close()

	if err := gob.NewDecoder(bufio.NewReader(f)).Decode(&data); err != nil {
		return data, errors.Wrap(err, "could not decode binary file "+path)
	}
	return data, nil
}

func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Integer](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}

// CountOnes counts the set elements across a slice of 0/1 rows.
func CountOnes[A constraints.Integer](rows [][]A) uint64 {
	var total uint64
	for _, row := range rows {
		total += Sum(row)
	}
	return total
}
