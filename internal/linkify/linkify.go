// Package linkify renders raw post text into safe HTML with hashtags and
// mentions turned into in-app links. Storage always keeps the raw text; this
// is a presentation concern applied when serializing responses.
package linkify

import (
	"fmt"
	"html"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	hashtagRe = regexp.MustCompile(`(^|\s)#([A-Za-z0-9_]+)`)
	mentionRe = regexp.MustCompile(`(^|\s)@([A-Za-z0-9_-]+)`)

	policy = func() *bluemonday.Policy {
		p := bluemonday.NewPolicy()
		p.AllowAttrs("href").OnElements("a")
		p.RequireParseableURLs(true)
		p.AllowRelativeURLs(true)
		return p
	}()
)

// Render escapes content and links up #hashtags (to /hashtag/<tag>) and
// @mentions (to /users/<username>), then sanitizes the result.
func Render(content string) string {
	out := html.EscapeString(content)
	out = hashtagRe.ReplaceAllString(out, `$1<a href="/hashtag/$2">#$2</a>`)
	out = mentionRe.ReplaceAllString(out, `$1<a href="/users/$2">@$2</a>`)
	return policy.Sanitize(out)
}

// Hashtags extracts the distinct hashtag names mentioned in content, in
// order of first appearance.
func Hashtags(content string) []string {
	var tags []string
	seen := map[string]bool{}
	for _, m := range hashtagRe.FindAllStringSubmatch(content, -1) {
		if !seen[m[2]] {
			seen[m[2]] = true
			tags = append(tags, m[2])
		}
	}
	return tags
}

// Mention builds the profile path for a username, used by consumers that
// need the link target without rendering a full post.
func Mention(username string) string {
	return fmt.Sprintf("/users/%s", username)
}
