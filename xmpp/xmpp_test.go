package xmpp

import "testing"

func TestServerName(t *testing.T) {
	if s := serverName("race@jabber.example.org"); s != "jabber.example.org" {
		t.Errorf("serverName(race@jabber.example.org) = %s; want jabber.example.org", s)
	}
	if s := serverName("jabber.example.org:5222"); s != "jabber.example.org:5222" {
		t.Errorf("serverName(jabber.example.org:5222) = %s; want it unchanged", s)
	}
}

func TestSendMissingConfig(t *testing.T) {
	x := Xmpp{Config: Config{Jid: "race@example.org"}}
	if x.Enabled() {
		t.Errorf("Enabled() = true; want false without password and recipient")
	}
	if err := x.Send("Race started"); err != ErrMissingConfig {
		t.Errorf("Send() = %v; want ErrMissingConfig", err)
	}
}
