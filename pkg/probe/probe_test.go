// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package probe

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

type testCase struct {
	endpoint string
	code     int
}

func testFunc(t *testing.T, s *Server, ts []testCase) {
	for _, tt := range ts {
		resp, err := http.Get("http://" + s.Addr() + tt.endpoint)
		require.NoError(t, err)
		require.Equal(t, tt.code, resp.StatusCode, tt.endpoint)
		require.NoError(t, resp.Body.Close())
	}
}

func TestBasicProbe(t *testing.T) {
	s := New("127.0.0.1:0")
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	test1 := []testCase{
		{"/liveness", http.StatusOK},
		{"/readiness", http.StatusServiceUnavailable},
		{"/health", http.StatusServiceUnavailable},
	}
	testFunc(t, s, test1)

	test2 := []testCase{
		{"/liveness", http.StatusOK},
		{"/readiness", http.StatusOK},
		{"/health", http.StatusOK},
	}
	s.Ready()
	testFunc(t, s, test2)
	s.NotReady()
	testFunc(t, s, test1)

	resp, err := http.Get("http://" + s.Addr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "go_goroutines")

	addr := s.Addr()
	require.NoError(t, s.Stop(ctx))
	_, err = http.Get("http://" + addr + "/liveness")
	require.Error(t, err)
}

func TestReadinessHandler(t *testing.T) {
	ctx := context.Background()
	s := New("127.0.0.1:0", WithReadinessHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})))
	defer s.Stop(ctx)

	require.NoError(t, s.Start(ctx))
	s.Ready()
	testFunc(t, s, []testCase{
		{"/liveness", http.StatusOK},
		{"/readiness", http.StatusAccepted},
		{"/health", http.StatusAccepted},
	})
}

func TestStartInvalidAddress(t *testing.T) {
	s := New("myAddress")
	require.Error(t, s.Start(context.Background()))
}
