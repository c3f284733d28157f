package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-bouts/racing-calculator/api/model"
	"github.com/a-bouts/racing-calculator/calculator"
	"github.com/a-bouts/racing-calculator/latlon"
	"github.com/a-bouts/racing-calculator/publish"
	"github.com/a-bouts/racing-calculator/race"
	"github.com/a-bouts/racing-calculator/settings"
	"github.com/a-bouts/racing-calculator/vessel"
)

func newServer(t *testing.T) (http.Handler, *calculator.Calculator, *vessel.Self) {
	t.Helper()
	mark := latlon.LatLon{Lat: 43.28, Lon: 5.30}
	config := settings.Config{
		Model:                         latlon.LatLonHaversine{},
		DistanceToDetectLegCompletion: 30,
		Courses: map[string]*race.Course{
			"sausage": {
				Name: "sausage",
				Legs: []race.CourseLeg{
					{WaypointMarkName: "top", WaypointMarkPoint: mark, Direction: race.Upwind},
					{WaypointMarkName: "bottom", WaypointMarkPoint: latlon.LatLon{Lat: 43.27, Lon: 5.30}, Direction: race.Downwind},
				},
			},
		},
	}
	self := vessel.New(time.Minute)
	c := calculator.New(config, self, publish.Logger{}, nil)
	return InitServer(c, self), c, self
}

func put(t *testing.T, h http.Handler, path, body string) (int, model.PutResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, selfPath+path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var res model.PutResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return rec.Code, res
}

func TestHealthz(t *testing.T) {
	h, _, _ := newServer(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/racing/-/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "Ok"}`, rec.Body.String())
}

func TestRaceCommands(t *testing.T) {
	h, c, _ := newServer(t)

	code, res := put(t, h, "/racing/selectRaceCourse", `{"value": "sausage"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.StateSuccess, res.State)

	code, _ = put(t, h, "/racing/startCountdown", `{"value": 120}`)
	assert.Equal(t, http.StatusOK, code)
	status, mark := c.Status()
	assert.Equal(t, race.PreStart, status)
	assert.Equal(t, "top", mark)

	code, _ = put(t, h, "/racing/nextWaypoint", `{}`)
	assert.Equal(t, http.StatusOK, code)
	_, mark = c.Status()
	assert.Equal(t, "bottom", mark)

	code, res = put(t, h, "/racing/nextWaypoint", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, model.StateCompleted, res.State)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, res.Message, "last leg")

	code, _ = put(t, h, "/racing/cancelRace", `{}`)
	assert.Equal(t, http.StatusOK, code)
	status, _ = c.Status()
	assert.Equal(t, race.Setup, status)
}

func TestBadRequests(t *testing.T) {
	h, _, _ := newServer(t)

	tests := []struct {
		path, body string
	}{
		{"/racing/selectRaceCourse", `{"value": "olympic"}`},
		{"/racing/selectRaceCourse", `{}`},
		{"/racing/startCountdown", `{"value": "soon"}`},
		{"/racing/startCountdown", `not json`},
		{"/racing/pingBoat", `{}`},
		{"/racing/pingPin", `{}`},
		{"/navigation", `{"position": {"latitude": 95, "longitude": 5}}`},
		{"/navigation", `{"position": {"latitude": 43}}`},
	}
	for _, tt := range tests {
		code, res := put(t, h, tt.path, tt.body)
		assert.Equal(t, http.StatusBadRequest, code, "%s %s", tt.path, tt.body)
		assert.Equal(t, model.StateCompleted, res.State)
	}
}

func TestNavigationAndRacing(t *testing.T) {
	h, c, self := newServer(t)

	code, _ := put(t, h, "/navigation", `{"position": {"latitude": 43.2700, "longitude": 5.3000}, "courseOverGroundTrue": 0, "speedOverGround": 2.5}`)
	require.Equal(t, http.StatusOK, code)
	p, cog, sog := self.Snapshot(time.Now())
	require.NotNil(t, p)
	require.NotNil(t, cog)
	require.NotNil(t, sog)
	assert.Equal(t, latlon.LatLon{Lat: 43.27, Lon: 5.3}, *p)
	assert.Equal(t, 2.5, *sog)

	code, res := put(t, h, "/racing/pingBoat", `{}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]interface{}{"lat": 43.27, "lon": 5.3}, res.Value)

	code, _ = put(t, h, "/racing/selectRaceCourse", `{"value": "sausage"}`)
	require.Equal(t, http.StatusOK, code)
	c.Tick(context.Background(), time.Now())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, selfPath+"/navigation/racing", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var values []publish.Value
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&values))
	paths := make([]string, len(values))
	for i, v := range values {
		paths[i] = v.Path
	}
	assert.Contains(t, paths, publish.DistanceBoatEnd)
	assert.Contains(t, paths, publish.DistanceToMark)
	assert.Contains(t, paths, publish.Vmg)
	assert.Contains(t, paths, publish.MarkName)
}

func TestCourses(t *testing.T) {
	h, _, _ := newServer(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, selfPath+"/racing/courses", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["sausage"]`, rec.Body.String())
}

func TestGetIp(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-FORWARDED-FOR", "bogus, 10.0.0.7")
	ip, err := getIp(req)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", ip)

	req.Header.Set("X-REAL-IP", "192.168.1.2")
	ip, _ = getIp(req)
	assert.Equal(t, "192.168.1.2", ip)
}
