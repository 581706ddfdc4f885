package db

import (
	"strings"
	"testing"
)

func TestSessionQueryOrdering(t *testing.T) {
	if !strings.Contains(listSessions, "ORDER BY number ASC") {
		t.Fatal("session index must list sessions in play order")
	}
	if !strings.Contains(getPreviousSession, "ORDER BY number DESC") {
		t.Fatal("previous-session lookup must take the highest lower number")
	}
	if strings.Contains(getNextSession, "DESC") {
		t.Fatal("next-session lookup must take the lowest higher number")
	}
}
