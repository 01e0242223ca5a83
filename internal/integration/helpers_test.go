package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

// Fields with values the test cannot pin down: request ids, generated booking
// references, timestamps.
var keysToIgnore = map[string]struct{}{
	"timestamp":   {},
	"requestId":   {},
	"createdAt":   {},
	"bookingId":   {},
	"checkoutUrl": {},
	"reference":   {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indetermistic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}

		switch v := m[k].(type) {
		case map[string]any:
			cleanMap(v)
		case []any:
			for _, item := range v {
				if nested, ok := item.(map[string]any); ok {
					cleanMap(nested)
				}
			}
		}
	}
}

func resetState(t testing.TB, app *TestApp) {
	t.Helper()

	ctx := context.Background()

	_, err := app.DB.Exec(ctx, "TRUNCATE TABLE show_seats, bookings, shows, movies RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	require.NoError(t, app.RedisClient.FlushAll(ctx).Err())

	app.Mailer.Reset()
}

func seedMovie(t testing.TB, app *TestApp, title string) int {
	t.Helper()

	var id int
	err := app.DB.QueryRow(
		context.Background(),
		`INSERT INTO movies (title, description, genres, release_date, runtime, poster_url, rating)
		 VALUES ($1, 'Test description', '{Drama}', '2014-11-07', 120, 'https://posters.example.com/test.jpg', 8.5)
		 RETURNING id`,
		title,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

func seedShow(t testing.TB, app *TestApp, movieID int, price string, seatRows, seatsPerRow int) int {
	t.Helper()

	var id int
	err := app.DB.QueryRow(
		context.Background(),
		`INSERT INTO shows (movie_id, starts_at, price, seat_rows, seats_per_row)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		movieID,
		time.Date(2030, 9, 1, 20, 0, 0, 0, time.UTC),
		price,
		seatRows,
		seatsPerRow,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

func countClaimedSeats(t testing.TB, app *TestApp, showID int) int {
	t.Helper()

	var count int
	err := app.DB.QueryRow(
		context.Background(),
		"SELECT COUNT(*) FROM show_seats WHERE show_id = $1",
		showID,
	).Scan(&count)
	require.NoError(t, err)

	return count
}

func bookingStatus(t testing.TB, app *TestApp, reference string) string {
	t.Helper()

	var status string
	err := app.DB.QueryRow(
		context.Background(),
		"SELECT status FROM bookings WHERE reference = $1",
		reference,
	).Scan(&status)
	require.NoError(t, err)

	return status
}
