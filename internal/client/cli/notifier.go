package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/leadsession/internal/client/session"
)

// newNotifier prints notifications as single lines on w.
func newNotifier(w io.Writer) session.Notifier {
	return session.NotifierFunc(func(_ context.Context, n session.Notification) {
		fmt.Fprintf(w, "[%s] %s: %s\n", n.Level, n.Title, n.Text)
	})
}
