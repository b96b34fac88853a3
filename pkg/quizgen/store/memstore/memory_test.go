package memstore

import (
	"testing"

	"github.com/cognicore/quizgen/pkg/quizgen/store"
	"github.com/cognicore/quizgen/pkg/quizgen/store/storetest"
)

func TestMemstore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}
