package testutil_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aushadhiai/screening-console/internal/testutil"
)

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestFakeBackend_RoutesAndRecordsCalls(t *testing.T) {
	f := testutil.NewFakeBackend(t)
	f.Respond(testutil.PathHitsByDisease, http.StatusOK, `[]`)
	f.RespondFor(testutil.PathHitsByDisease, "malaria", http.StatusBadGateway, `oops`)

	assert.Equal(t, http.StatusOK, post(t, f.URL+testutil.PathHitsByDisease, `{"disease":"flu"}`).StatusCode)
	assert.Equal(t, http.StatusBadGateway, post(t, f.URL+testutil.PathHitsByDisease, `{"disease":"malaria"}`).StatusCode)
	assert.Equal(t, http.StatusNotFound, post(t, f.URL+testutil.PathEvaluation, `{"smiles":"CCO"}`).StatusCode)

	calls := f.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "flu", calls[0].Param)
	assert.Equal(t, "CCO", calls[2].Param)
}

func TestFakeBackend_Gate(t *testing.T) {
	f := testutil.NewFakeBackend(t)
	f.Respond(testutil.PathFindTargets, http.StatusOK, `[]`)
	release, arrived := f.Gate(testutil.PathFindTargets, "slow")

	done := make(chan int, 1)
	go func() {
		resp, err := http.Post(f.URL+testutil.PathFindTargets, "application/json", strings.NewReader(`{"disease":"slow"}`))
		if err != nil {
			done <- 0
			return
		}
		resp.Body.Close()
		done <- resp.StatusCode
	}()

	<-arrived
	select {
	case <-done:
		t.Fatal("gated response was delivered before release")
	case <-time.After(20 * time.Millisecond):
	}
	release()
	assert.Equal(t, http.StatusOK, <-done)
}
