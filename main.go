package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/racing-calculator/api"
	"github.com/a-bouts/racing-calculator/calculator"
	"github.com/a-bouts/racing-calculator/publish"
	"github.com/a-bouts/racing-calculator/settings"
	"github.com/a-bouts/racing-calculator/vessel"
	"github.com/a-bouts/racing-calculator/xmpp"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found")
	}

	fs := flag.NewFlagSet("racing-calculator", flag.ExitOnError)
	var (
		listen         = fs.String("listen", ":8888", "HTTP listen address")
		settingsFile   = fs.String("settings", "settings.json", "race courses settings file")
		updatePeriod   = fs.Duration("update-period", time.Second, "period of the race evaluation")
		positionMaxAge = fs.Duration("position-max-age", 10*time.Second, "age after which vessel readings are ignored")
		debug          = fs.Bool("debug", false, "debug logs")
		cpuprofile     = fs.Bool("cpuprofile", false, "write a CPU profile")
		redisAddr      = fs.String("redis-addr", "", "Redis address to publish deltas to")
		redisChannel   = fs.String("redis-channel", "navigation.racing", "Redis channel")
		xmppHost       = fs.String("xmpp-host", "", "")
		xmppJid        = fs.String("xmpp-jid", "", "")
		xmppPassword   = fs.String("xmpp-password", "", "")
		xmppTo         = fs.String("xmpp-to", "", "")
		_              = fs.String("config", "", "config file")
	)
	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RACING"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		log.Fatal(err)
	}

	initLogger(*debug)

	if *cpuprofile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	config, err := settings.Load(*settingsFile)
	if err != nil {
		log.Fatalf("Error loading settings: %v", err)
	}
	log.Infof("Loaded %d race courses from '%s'", len(config.Courses), *settingsFile)

	publishers := publish.Multi{publish.Logger{}}
	if *redisAddr != "" {
		r := publish.NewRedis(*redisAddr, *redisChannel)
		defer r.Close()
		publishers = append(publishers, r)
	}

	var notifier calculator.Notifier
	x := xmpp.Xmpp{Config: xmpp.Config{Host: *xmppHost, Jid: *xmppJid, Password: *xmppPassword, To: *xmppTo}}
	if x.Enabled() {
		notifier = x
	}

	self := vessel.New(*positionMaxAge)
	c := calculator.New(config, self, publishers, notifier)

	stop := c.Schedule(*updatePeriod)
	defer stop()

	srv := &http.Server{Addr: *listen, Handler: api.InitServer(c, self)}
	go func() {
		log.Infof("Start server on %s", *listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Info("Stop server")
	srv.Close()
}
