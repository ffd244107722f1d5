package chat

import (
	"fmt"
	"strings"

	"github.com/cofounder-os/cofounder/task"
)

// Assistant reply copy lives here as data so wording changes never touch
// the ranking logic.
const (
	replyIntro = "Basierend auf deinem aktuellen Backlog würde ich diese Schritte priorisieren:"

	replyBullet = "- %s (score %d) — domain: %s"

	replyClosing = "Nutze den Button 'Ich bin frei', um dir direkt den nächsten Schritt zuzuweisen."

	replyNoTasks = "Ich sehe noch keine Aufgaben. Erstelle 3-5 klare, wirkungsstarke Tasks mit Impact, Effort und Urgency – dann priorisiere ich sie automatisch."
)

// renderReply formats the assistant reply for the given top-ranked tasks.
// Tasks must already carry their scores.
func renderReply(top []*task.Task) string {
	if len(top) == 0 {
		return replyNoTasks
	}
	var b strings.Builder
	b.WriteString(replyIntro)
	b.WriteByte('\n')
	for i, t := range top {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, replyBullet, t.Title, t.Score, t.Domain)
	}
	b.WriteString("\n\n")
	b.WriteString(replyClosing)
	return b.String()
}
