package mockauthority

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func get(t *testing.T, handler http.Handler, target string) (int, string) {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)

	return rec.Code, string(body)
}

// TestCheck_Toggles starts and ends a session on consecutive requests.
func TestCheck_Toggles(t *testing.T) {
	t.Parallel()

	a := New("RSP505", "deadbeef")
	h := a.Handler()
	target := PathCheck + "?mode=check_and_toggle&uid=DEADBEEF&token=RSP505"

	code, body := get(t, h, target)
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "session_started")
	require.True(t, a.InSession("deadbeef"))

	_, body = get(t, h, target)
	require.Contains(t, body, "session_ended")
	require.False(t, a.InSession("DEADBEEF"))
	require.Equal(t, 2, a.Requests())
}

// TestCheck_Denials denies bad tokens and unknown cards with a 200.
func TestCheck_Denials(t *testing.T) {
	t.Parallel()

	h := New("RSP505", "DEADBEEF").Handler()

	code, body := get(t, h, PathCheck+"?mode=check_and_toggle&uid=DEADBEEF&token=nope")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, ReasonBadToken)
	require.NotContains(t, body, "session_")

	_, body = get(t, h, PathCheck+"?mode=check_and_toggle&uid=01020304&token=RSP505")
	require.Contains(t, body, ReasonUnknownCard)

	code, _ = get(t, h, PathCheck+"?mode=enroll&uid=DEADBEEF&token=RSP505")
	require.Equal(t, http.StatusBadRequest, code)
}

// TestRedirect points the legacy path at the check route with the query kept.
func TestRedirect(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	New("RSP505").Handler().ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, PathRedirect+"?mode=check_and_toggle&uid=AB&token=RSP505", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, PathCheck+"?mode=check_and_toggle&uid=AB&token=RSP505", rec.Header().Get("Location"))
}
