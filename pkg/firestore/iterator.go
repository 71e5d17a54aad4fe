package firestore

import (
	"errors"

	"google.golang.org/api/iterator"
)

func isIteratorDone(err error) bool {
	return errors.Is(err, iterator.Done)
}

// IsDone reports whether an iterator has been exhausted.
func IsDone(err error) bool {
	return isIteratorDone(err)
}
