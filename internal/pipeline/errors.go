package pipeline

import "github.com/pkg/errors"

func errMismatchedMateCount(n1, n2 int) error {
	return errors.Errorf("mate files produced different read counts in this batch: %d vs %d", n1, n2)
}
