package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if a.identity.Email != "" {
		s = a.identity.Email + " "
	} else if a.identity.UID != "" {
		s = a.identity.UID + " "
	}
	if m := a.mode(); m != "" {
		s += string(m)
	}
	if s = strings.TrimSpace(s); s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root runs the REPL until the user exits or stdin closes.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to ele (type 'help' for commands)")

	a.checkOnline(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
