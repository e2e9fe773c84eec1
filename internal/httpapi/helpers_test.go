package httpapi_test

import (
	"github.com/arvindkr/geoflow/pkg/reconciler"
	"github.com/arvindkr/geoflow/pkg/store"
)

func reconcilerFor(s store.Store) *reconciler.Reconciler {
	return reconciler.New(s, nopLogger{})
}
