package passmatic

import (
	"fmt"
	"strings"

	"github.com/passmatic/passmatic/internal/codec"
)

func RenderSuccess() string {
	return "## ✅ Passmatic: Vibe Check Passed\n\n" +
		"Great job! Your answers demonstrate solid understanding of the changes.\n\n" +
		"This PR has been approved. 🎉"
}

// RenderFailure lists feedback for the failed results only. Passed
// questions are not mentioned; the contributor resubmits every answer.
func RenderFailure(arity int, results []Result) string {
	var b strings.Builder
	b.WriteString("## ❌ Passmatic: Vibe Check Failed\n\n")
	b.WriteString("Your answers don't quite demonstrate full understanding of the changes.\n\n")

	if arity == 1 {
		for _, r := range results {
			if !r.Passed {
				fmt.Fprintf(&b, "**Feedback:** %s\n\n", r.Feedback)
			}
		}
		b.WriteString("Please try again by responding with:\n")
		b.WriteString("```\n" + codec.Trigger + " <your revised answer>\n```\n\n")
	} else {
		for _, r := range results {
			if !r.Passed {
				fmt.Fprintf(&b, "**Question %d:** %s\n\n", r.Index, r.Feedback)
			}
		}
		fmt.Fprintf(&b, "Please try again by responding with all %d answers:\n", arity)
		b.WriteString("```\n" + codec.Trigger + "\n")
		for i := 1; i <= arity; i++ {
			fmt.Fprintf(&b, "%d. <your revised answer>\n", i)
		}
		b.WriteString("```\n\n")
	}
	b.WriteString("Take a moment to review the technical details of your changes.")
	return b.String()
}
