package xmpp

import (
	"crypto/tls"
	"errors"
	"strings"

	"github.com/mattn/go-xmpp"
	log "github.com/sirupsen/logrus"
)

var ErrMissingConfig = errors.New("missing xmpp config")

type (
	// Config of the chat account race events are sent from.
	Config struct {
		Host     string
		Jid      string
		Password string
		To       string
	}

	Xmpp struct {
		Config Config
	}
)

func serverName(jid string) string {
	if i := strings.Index(jid, "@"); i >= 0 {
		return jid[i+1:]
	}
	return jid
}

// Enabled is false when the account is not configured.
func (x Xmpp) Enabled() bool {
	return len(x.Config.Jid) > 0 && len(x.Config.Password) > 0 && len(x.Config.To) > 0
}

// Send opens a session, sends one chat message and closes the session.
func (x Xmpp) Send(message string) error {
	if !x.Enabled() {
		return ErrMissingConfig
	}

	if len(x.Config.Host) == 0 {
		x.Config.Host = serverName(x.Config.Jid)
	}

	xmpp.DefaultConfig = tls.Config{
		ServerName: strings.Split(x.Config.Host, ":")[0],
	}

	options := xmpp.Options{
		Host:          x.Config.Host,
		User:          x.Config.Jid,
		Password:      x.Config.Password,
		NoTLS:         true,
		StartTLS:      true,
		Debug:         false,
		Session:       false,
		Status:        "xa",
		StatusMessage: "Racing calculator",
	}

	log.Debugf("Connect to xmpp server %s as %s", options.Host, options.User)
	talk, err := options.NewClient()
	if err != nil {
		log.Errorf("Error connecting to xmpp server %s: %v", options.Host, err)
		return err
	}
	defer talk.Close()

	_, err = talk.Send(xmpp.Chat{Remote: x.Config.To, Type: "chat", Text: message})
	return err
}
