package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/aml-service/internal/infrastructure/config"
	"github.com/bibbank/aml-service/pkg/observability"
	"github.com/bibbank/aml-service/pkg/testutil"
)

func TestReconcileRequest(t *testing.T) {
	req, err := reconcileRequest(options{reconcileAccount: "ACC-0001", from: "2024-03-01", to: "2024-03-15"})
	require.NoError(t, err)
	assert.Equal(t, "ACC-0001", req.AccountID)
	assert.Equal(t, civil.Date{Year: 2024, Month: 3, Day: 1}, req.From)
	assert.Equal(t, testutil.TestValueDate, req.To)

	_, err = reconcileRequest(options{reconcileAccount: "ACC-0001", to: "15-03-2024"})
	assert.ErrorContains(t, err, "invalid -to")

	_, err = reconcileRequest(options{reconcileAccount: "ACC-0001", from: "yesterday"})
	assert.ErrorContains(t, err, "invalid -from")
}

func TestReconcileRequestDefaultsToToday(t *testing.T) {
	orig := timeNow
	timeNow = func() time.Time { return time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { timeNow = orig })

	req, err := reconcileRequest(options{reconcileAccount: "ACC-0001"})
	require.NoError(t, err)
	assert.Equal(t, testutil.TestValueDate, req.To)
	assert.True(t, req.From.IsZero(), "use case applies the default range")
}

func TestRunRequiresAMode(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), config.Config{}, options{}, &out, observability.NopLogger())
	assert.ErrorContains(t, err, "-file or -reconcile-account")
	assert.Empty(t, out.String())
}
