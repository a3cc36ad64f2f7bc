package main

import (
	"testing"

	"github.com/drunlade/zwzniff/pkg/config"
	zwerrors "github.com/drunlade/zwzniff/pkg/errors"
)

func TestParsePeerSpecDefaults(t *testing.T) {
	s := parsePeerSpec("10.0.0.5")
	if s.host != "10.0.0.5" || s.port != config.DefaultPTIPort || s.protocol != "pti" {
		t.Fatalf("parsePeerSpec(%q) = %+v", "10.0.0.5", s)
	}
}

func TestParsePeerSpecOverrides(t *testing.T) {
	s := parsePeerSpec("10.0.0.5,port=9001,protocol=zniff-rs")
	if s.host != "10.0.0.5" || s.port != 9001 || s.protocol != "zniff-rs" {
		t.Fatalf("parsePeerSpec with overrides = %+v", s)
	}
}

func TestParsePeerSpecIgnoresMalformedKV(t *testing.T) {
	s := parsePeerSpec("10.0.0.5,garbage,port=not-a-number")
	if s.host != "10.0.0.5" || s.port != config.DefaultPTIPort {
		t.Fatalf("parsePeerSpec should fall back to defaults on malformed input, got %+v", s)
	}
}

func TestParsePeerSpecSSH(t *testing.T) {
	s := parsePeerSpec("10.0.0.5,protocol=ssh,user=pi,password=raspberry,cmd=zwzniff-remote")
	if s.protocol != "ssh" || s.sshUser != "pi" || s.sshPass != "raspberry" || s.sshRemote != "zwzniff-remote" {
		t.Fatalf("parsePeerSpec ssh fields = %+v", s)
	}
}

func TestRunPeerPumpSSHRequiresRemoteCommand(t *testing.T) {
	spec := parsePeerSpec("10.0.0.5,protocol=ssh,user=pi,password=raspberry")
	stop := make(chan struct{})
	err := runPeerPump(spec, nil, stop)
	if !zwerrors.Is(err, zwerrors.CategoryFraming) {
		t.Fatalf("runPeerPump with no cmd= returned %v, want a framing-category error", err)
	}
}
