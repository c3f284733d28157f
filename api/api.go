package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/segmentio/ksuid"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/racing-calculator/api/model"
	"github.com/a-bouts/racing-calculator/calculator"
	"github.com/a-bouts/racing-calculator/latlon"
	"github.com/a-bouts/racing-calculator/vessel"
)

const selfPath = "/signalk/v1/api/vessels/self"

type server struct {
	c    *calculator.Calculator
	self *vessel.Self
}

func InitServer(c *calculator.Calculator, self *vessel.Self) http.Handler {

	router := mux.NewRouter().StrictSlash(true)

	s := server{c: c, self: self}

	router.HandleFunc("/racing/-/healthz", s.healthz).Methods(http.MethodGet)

	api := router.PathPrefix(selfPath).Subrouter()
	api.HandleFunc("/racing/startCountdown", s.startCountdown).Methods(http.MethodPut)
	api.HandleFunc("/racing/cancelRace", s.cancelRace).Methods(http.MethodPut)
	api.HandleFunc("/racing/pingBoat", s.pingBoat).Methods(http.MethodPut)
	api.HandleFunc("/racing/pingPin", s.pingPin).Methods(http.MethodPut)
	api.HandleFunc("/racing/selectRaceCourse", s.selectRaceCourse).Methods(http.MethodPut)
	api.HandleFunc("/racing/nextWaypoint", s.nextWaypoint).Methods(http.MethodPut)
	api.HandleFunc("/racing/courses", s.courses).Methods(http.MethodGet)
	api.HandleFunc("/navigation", s.navigation).Methods(http.MethodPut)
	api.HandleFunc("/navigation/racing", s.racing).Methods(http.MethodGet)

	return handlers.CombinedLoggingHandler(log.StandardLogger().WriterLevel(log.DebugLevel), router)
}

func requestLogger(req *http.Request, action string) *log.Entry {
	fields := log.Fields{
		"action":     action,
		"request_id": ksuid.New().String(),
	}
	if ip, err := getIp(req); err == nil {
		fields["IP"] = ip
	}
	return log.WithFields(fields)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

func success(w http.ResponseWriter, value interface{}) {
	writeJSON(w, http.StatusOK, model.PutResponse{State: model.StateSuccess, StatusCode: http.StatusOK, Value: value})
}

func failure(w http.ResponseWriter, logger *log.Entry, err error) {
	logger.Warn(err)
	writeJSON(w, http.StatusBadRequest, model.PutResponse{State: model.StateCompleted, StatusCode: http.StatusBadRequest, Message: err.Error()})
}

func decodeValue(req *http.Request, v interface{}) error {
	var put model.Put
	if err := json.NewDecoder(req.Body).Decode(&put); err != nil {
		return fmt.Errorf("invalid put request: %w", err)
	}
	if len(put.Value) == 0 {
		return errors.New("missing value")
	}
	if err := json.Unmarshal(put.Value, v); err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}
	return nil
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status string `json:"status"`
	}

	json.NewEncoder(w).Encode(health{Status: "Ok"})
}

func (s *server) startCountdown(w http.ResponseWriter, req *http.Request) {
	logger := requestLogger(req, "startCountdown")

	var seconds float64
	if err := decodeValue(req, &seconds); err != nil {
		failure(w, logger, err)
		return
	}
	values, err := s.c.StartCountdown(req.Context(), seconds)
	if err != nil {
		failure(w, logger, err)
		return
	}
	logger.Infof("Start in %.0f s", seconds)
	success(w, values)
}

func (s *server) cancelRace(w http.ResponseWriter, req *http.Request) {
	logger := requestLogger(req, "cancelRace")

	values := s.c.CancelRace(req.Context())
	logger.Info("Race cancelled")
	success(w, values)
}

func (s *server) pingBoat(w http.ResponseWriter, req *http.Request) {
	logger := requestLogger(req, "pingBoat")

	p, err := s.c.PingBoat()
	if err != nil {
		failure(w, logger, err)
		return
	}
	logger.Infof("Boat end @ %s", p)
	success(w, p)
}

func (s *server) pingPin(w http.ResponseWriter, req *http.Request) {
	logger := requestLogger(req, "pingPin")

	p, err := s.c.PingPin()
	if err != nil {
		failure(w, logger, err)
		return
	}
	logger.Infof("Pin end @ %s", p)
	success(w, p)
}

func (s *server) selectRaceCourse(w http.ResponseWriter, req *http.Request) {
	logger := requestLogger(req, "selectRaceCourse")

	var name string
	if err := decodeValue(req, &name); err != nil {
		failure(w, logger, err)
		return
	}
	values, err := s.c.SelectRaceCourse(req.Context(), name)
	if err != nil {
		failure(w, logger, err)
		return
	}
	logger.Infof("Race course '%s' selected", name)
	success(w, values)
}

func (s *server) nextWaypoint(w http.ResponseWriter, req *http.Request) {
	logger := requestLogger(req, "nextWaypoint")

	values, err := s.c.NextWaypoint(req.Context())
	if err != nil {
		failure(w, logger, err)
		return
	}
	success(w, values)
}

func (s *server) courses(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, s.c.CourseNames())
}

func (s *server) racing(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, s.c.Latest())
}

func (s *server) navigation(w http.ResponseWriter, req *http.Request) {
	logger := requestLogger(req, "navigation")

	var n model.Navigation
	if err := json.NewDecoder(req.Body).Decode(&n); err != nil {
		failure(w, logger, fmt.Errorf("invalid navigation update: %w", err))
		return
	}

	now := time.Now()
	if p := n.Position; p != nil {
		if p.Latitude == nil || p.Longitude == nil || math.Abs(*p.Latitude) > 90 || math.Abs(*p.Longitude) > 180 {
			failure(w, logger, errors.New("invalid position"))
			return
		}
		s.self.SetPosition(latlon.LatLon{Lat: *p.Latitude, Lon: *p.Longitude}, now)
	}
	if cog := n.CourseOverGroundTrue; cog != nil {
		s.self.SetCourseOverGround(*cog, now)
	}
	if sog := n.SpeedOverGround; sog != nil {
		s.self.SetSpeedOverGround(*sog, now)
	}
	success(w, nil)
}

func getIp(r *http.Request) (string, error) {
	//Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}

	//Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP := net.ParseIP(strings.TrimSpace(ip))
		if netIP != nil {
			return strings.TrimSpace(ip), nil
		}
	}

	//Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}
	return "", fmt.Errorf("No valid ip found")
}
