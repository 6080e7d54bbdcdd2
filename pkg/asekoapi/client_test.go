package asekoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-api-key", 2*time.Second, zap.NewNop()), server
}

func TestListUnitSerialsSorted(t *testing.T) {

	require := require.New(t)

	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal("/paired-units", r.URL.Path)
		require.Equal("Bearer test-api-key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(pagedUnitsResponse{
			Items: []pagedUnitItem{
				{SerialNumber: "ZZZ123"},
				{SerialNumber: "AAA456"},
				{SerialNumber: "MMM789"},
			},
			TotalItems: 3,
		})
	}))

	serials, err := client.ListUnitSerials(context.Background())
	require.NoError(err)
	assert.Equal(t, []string{"AAA456", "MMM789", "ZZZ123"}, serials)
}

func TestListUnitSerialsPaginated(t *testing.T) {

	require := require.New(t)

	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		resp := pagedUnitsResponse{TotalItems: 101}
		if page == "1" {
			for i := 0; i < 100; i++ {
				resp.Items = append(resp.Items, pagedUnitItem{SerialNumber: "UNIT0"})
			}
		} else {
			resp.Items = []pagedUnitItem{{SerialNumber: "UNIT1"}}
		}
		json.NewEncoder(w).Encode(resp)
	}))

	serials, err := client.ListUnitSerials(context.Background())
	require.NoError(err)
	assert.Len(t, serials, 101)
}

func TestAuthErrorOnRejectedKey(t *testing.T) {

	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	err := client.CheckAuth(context.Background())
	assert.Error(t, err)
	assert.True(t, isAuthError(err), "expected AuthError")
}

func TestCheckAuthInvalidKey(t *testing.T) {

	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(authCheckResponse{Valid: false})
	}))

	err := client.CheckAuth(context.Background())
	assert.True(t, isAuthError(err), "expected AuthError for valid=false")
}

func TestGetUnitsAuthErrorBubblesUp(t *testing.T) {

	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/paired-units" {
			json.NewEncoder(w).Encode(pagedUnitsResponse{
				Items:      []pagedUnitItem{{SerialNumber: "UNIT1"}, {SerialNumber: "UNIT2"}},
				TotalItems: 2,
			})
			return
		}
		if r.URL.Path == "/paired-units/UNIT2" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		json.NewEncoder(w).Encode(RawUnit{SerialNumber: "UNIT1"})
	}))

	_, err := client.GetUnits(context.Background())
	assert.True(t, isAuthError(err), "auth error from parallel fetch must bubble up")
}

func TestGetUnitsAll404Fails(t *testing.T) {

	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/paired-units" {
			json.NewEncoder(w).Encode(pagedUnitsResponse{
				Items:      []pagedUnitItem{{SerialNumber: "UNIT1"}, {SerialNumber: "UNIT2"}, {SerialNumber: "UNIT3"}},
				TotalItems: 3,
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetUnits(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "all 3 units returned 404")
}

func TestGetUnitsPartialSuccess(t *testing.T) {

	require := require.New(t)

	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/paired-units":
			json.NewEncoder(w).Encode(pagedUnitsResponse{
				Items:      []pagedUnitItem{{SerialNumber: "UNIT1"}, {SerialNumber: "UNIT2"}, {SerialNumber: "UNIT3"}},
				TotalItems: 3,
			})
		case "/paired-units/UNIT2":
			w.WriteHeader(http.StatusNotFound)
		default:
			json.NewEncoder(w).Encode(RawUnit{SerialNumber: r.URL.Path[len("/paired-units/"):]})
		}
	}))

	units, err := client.GetUnits(context.Background())
	require.NoError(err)
	require.Len(units, 2)
	assert.Equal(t, "UNIT1", units[0].SerialNumber)
	assert.Equal(t, "UNIT3", units[1].SerialNumber)
}

func TestGetUnitsEmpty(t *testing.T) {

	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(pagedUnitsResponse{})
	}))

	units, err := client.GetUnits(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, units)
}

func TestTransportError(t *testing.T) {

	client := NewClient("http://127.0.0.1:1", "key", 500*time.Millisecond, zap.NewNop())

	_, err := client.GetUnit(context.Background(), "UNIT1")
	assert.Error(t, err)
	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}
